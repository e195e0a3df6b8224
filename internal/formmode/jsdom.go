//go:build js && wasm

package formmode

import (
	"strings"
	"syscall/js"
)

// JSDocument is a Document backed by the browser DOM.
type JSDocument struct {
	doc js.Value
}

type jsElement struct {
	v js.Value
}

// NewJSDocument wraps the page's document object.
func NewJSDocument(doc js.Value) *JSDocument {
	return &JSDocument{doc: doc}
}

// Value returns the wrapped DOM node of an Element created by this backend.
func Value(el Element) (js.Value, bool) {
	e, ok := el.(*jsElement)
	if !ok || e == nil {
		return js.Undefined(), false
	}
	return e.v, true
}

// Wrap turns a DOM node into an Element.
func Wrap(v js.Value) (Element, bool) {
	return wrapJS(v)
}

func wrapJS(v js.Value) (Element, bool) {
	if !v.Truthy() {
		return nil, false
	}
	return &jsElement{v: v}, true
}

func wrapJSList(list js.Value) []Element {
	if !list.Truthy() {
		return nil
	}
	n := list.Length()
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &jsElement{v: list.Index(i)})
	}
	return out
}

func (d *JSDocument) ByID(id string) (Element, bool) {
	return wrapJS(d.doc.Call("getElementById", id))
}

func (d *JSDocument) Create(tag string) Element {
	return &jsElement{v: d.doc.Call("createElement", tag)}
}

func (d *JSDocument) FindAll(selector string) []Element {
	return wrapJSList(d.doc.Call("querySelectorAll", selector))
}

func (e *jsElement) Find(selector string) (Element, bool) {
	return wrapJS(e.v.Call("querySelector", selector))
}

func (e *jsElement) FindAll(selector string) []Element {
	return wrapJSList(e.v.Call("querySelectorAll", selector))
}

func (e *jsElement) Tag() string {
	return strings.ToLower(e.v.Get("tagName").String())
}

func (e *jsElement) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *jsElement) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e *jsElement) RemoveAttr(name string) {
	e.v.Call("removeAttribute", name)
}

func (e *jsElement) Text() string {
	return e.v.Get("innerText").String()
}

func (e *jsElement) SetText(text string) {
	e.v.Set("innerText", text)
}

func (e *jsElement) Value() string {
	return e.v.Get("value").String()
}

func (e *jsElement) SetValue(value string) {
	e.v.Set("value", value)
}

func (e *jsElement) SelectIndex(index int) {
	if e.Tag() != "select" {
		return
	}
	e.v.Set("selectedIndex", index)
}

func (e *jsElement) Append(child Element) {
	c, ok := child.(*jsElement)
	if !ok || c == nil {
		return
	}
	e.v.Call("appendChild", c.v)
}

func (e *jsElement) Remove() {
	e.v.Call("remove")
}

func (e *jsElement) Reset() {
	if e.Tag() == "form" {
		e.v.Call("reset")
		return
	}
	for _, form := range e.FindAll("form") {
		form.Reset()
	}
}
