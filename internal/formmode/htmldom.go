package formmode

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument is a Document backed by a goquery tree. It is used to render
// pages already in edit mode and in tests. It is not safe for concurrent use.
type HTMLDocument struct {
	doc *goquery.Document
	// defaults holds each control's state as parsed, for Reset.
	defaults map[*html.Node]controlState
}

type controlState struct {
	attrs []html.Attribute
	text  string
}

type htmlElement struct {
	sel *goquery.Selection
	doc *HTMLDocument
}

// ParseHTML parses markup into an HTMLDocument.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return NewHTMLDocument(doc), nil
}

// NewHTMLDocument wraps an existing goquery document. The state of every
// control at this point becomes its default for Reset.
func NewHTMLDocument(doc *goquery.Document) *HTMLDocument {
	d := &HTMLDocument{doc: doc, defaults: make(map[*html.Node]controlState)}
	doc.Find("input, textarea, option").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		state := controlState{attrs: cloneAttrs(n.Attr)}
		if n.DataAtom == atom.Textarea {
			state.text = s.Text()
		}
		d.defaults[n] = state
	})
	return d
}

// Render writes the document as HTML.
func (d *HTMLDocument) Render(w io.Writer) error {
	if d.doc.Length() == 0 {
		return nil
	}
	return html.Render(w, d.doc.Get(0))
}

// String renders the document, returning an empty string on error.
func (d *HTMLDocument) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func (d *HTMLDocument) ByID(id string) (Element, bool) {
	return d.wrap(d.doc.Find(`[id="` + quoteAttr(id) + `"]`))
}

func (d *HTMLDocument) Create(tag string) Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return &htmlElement{sel: goquery.NewDocumentFromNode(n).Selection, doc: d}
}

func (d *HTMLDocument) FindAll(selector string) []Element {
	return d.wrapAll(d.doc.Find(selector))
}

func (d *HTMLDocument) wrap(sel *goquery.Selection) (Element, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return &htmlElement{sel: sel.First(), doc: d}, true
}

func (d *HTMLDocument) wrapAll(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &htmlElement{sel: s, doc: d})
	})
	return out
}

func (e *htmlElement) Find(selector string) (Element, bool) {
	return e.doc.wrap(e.sel.Find(selector))
}

func (e *htmlElement) FindAll(selector string) []Element {
	return e.doc.wrapAll(e.sel.Find(selector))
}

func (e *htmlElement) Tag() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

func (e *htmlElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *htmlElement) SetAttr(name, value string) {
	e.sel.SetAttr(name, value)
}

func (e *htmlElement) RemoveAttr(name string) {
	e.sel.RemoveAttr(name)
}

func (e *htmlElement) Text() string {
	var b strings.Builder
	for _, n := range e.sel.Nodes {
		innerText(n, &b)
	}
	return b.String()
}

func (e *htmlElement) SetText(text string) {
	e.sel.SetText(text)
}

func (e *htmlElement) Value() string {
	switch e.Tag() {
	case "textarea":
		return e.sel.Text()
	case "select":
		options := e.sel.Find("option")
		selected := options.FilterFunction(func(_ int, s *goquery.Selection) bool {
			_, ok := s.Attr("selected")
			return ok
		})
		if selected.Length() > 0 {
			return optionValue(selected.First())
		}
		if options.Length() > 0 {
			return optionValue(options.First())
		}
		return ""
	case "option":
		return optionValue(e.sel)
	default:
		return e.sel.AttrOr("value", "")
	}
}

func (e *htmlElement) SetValue(value string) {
	switch e.Tag() {
	case "textarea":
		e.sel.SetText(value)
	case "select":
		matched := false
		e.sel.Find("option").Each(func(_ int, s *goquery.Selection) {
			if !matched && optionValue(s) == value {
				s.SetAttr("selected", "")
				matched = true
				return
			}
			s.RemoveAttr("selected")
		})
	default:
		e.sel.SetAttr("value", value)
	}
}

func (e *htmlElement) SelectIndex(index int) {
	if e.Tag() != "select" {
		return
	}
	e.sel.Find("option").Each(func(i int, s *goquery.Selection) {
		if i == index {
			s.SetAttr("selected", "")
			return
		}
		s.RemoveAttr("selected")
	})
}

func (e *htmlElement) Append(child Element) {
	c, ok := child.(*htmlElement)
	if !ok || c == nil {
		return
	}
	e.sel.AppendSelection(c.sel)
}

func (e *htmlElement) Remove() {
	e.sel.Remove()
}

func (e *htmlElement) Reset() {
	e.sel.Find("input, textarea, option").AddSelection(e.sel).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		state, ok := e.doc.defaults[n]
		if !ok {
			return
		}
		n.Attr = cloneAttrs(state.attrs)
		if n.DataAtom == atom.Textarea {
			s.SetText(state.text)
		}
	})
}

func optionValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok {
		return v
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}

// innerText approximates the browser's innerText: <br> and block boundaries
// become line breaks, script and style content is skipped.
func innerText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Script, atom.Style, atom.Template:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		innerText(c, b)
	}
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.P, atom.Div, atom.Li, atom.Tr, atom.Legend, atom.H1, atom.H2, atom.H3:
			b.WriteString("\n")
		}
	}
}

func cloneAttrs(attrs []html.Attribute) []html.Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]html.Attribute, len(attrs))
	copy(out, attrs)
	return out
}

func quoteAttr(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}
