package formmode

import (
	"fmt"
	"strings"
)

// Mode is the presentation a form is in.
type Mode int

const (
	// Create posts to the variant's create route.
	Create Mode = iota
	// Edit posts to the edit route with a hidden record identifier.
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

// Values is the form state read back from the DOM.
type Values struct {
	Action   string
	Primary  string
	Channel  string
	Text     string
	RecordID string
}

// Controller drives one creation form between create and edit mode. The mode
// and active record live on the controller; after Bind the DOM is never read
// to decide which mode the form is in.
type Controller struct {
	doc     Document
	form    Element
	formID  string
	variant Variant

	mode     Mode
	activeID string

	// Nodes created for an edit session. They are detached on return to
	// create mode.
	hidden    Element
	container Element
	cancel    Element
}

// parts are the form elements a transition touches, resolved before any
// mutation so a missing element never leaves the form half updated.
type parts struct {
	wrapper Element
	heading Element
	primary Element
	channel Element
	text    Element
	submit  Element
}

// Bind attaches a controller to the variant's creation form of a scope. A
// form that already carries a record identifier (a page rendered in edit
// mode) is adopted in edit mode.
func Bind(doc Document, v Variant, scopeID string) (*Controller, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrMissingFormElement)
	}
	formID := v.FormID(scopeID)
	form, ok := doc.ByID(formID)
	if !ok {
		return nil, fmt.Errorf("%w: form #%s", ErrMissingFormElement, formID)
	}
	c := &Controller{
		doc:     doc,
		form:    form,
		formID:  formID,
		variant: v,
	}
	if hidden, ok := form.Find(recordIDSelector); ok {
		if id := strings.TrimSpace(hidden.Value()); id != "" {
			c.mode = Edit
			c.activeID = id
			c.hidden = hidden
			if container, ok := form.Find(buttonContainerSelector); ok {
				c.container = container
				c.cancel, _ = container.Find(cancelSelector)
			}
		}
	}
	return c, nil
}

// FormID returns the id of the bound form.
func (c *Controller) FormID() string { return c.formID }

// Variant returns the configuration the controller was bound with.
func (c *Controller) Variant() Variant { return c.variant }

// Mode reports the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// ActiveRecord returns the record being edited, if any.
func (c *Controller) ActiveRecord() (string, bool) {
	if c.mode != Edit {
		return "", false
	}
	return c.activeID, true
}

// EnterCreate puts the form in create mode. Calling it repeatedly leaves the
// DOM unchanged after the first call.
func (c *Controller) EnterCreate() error {
	p, err := c.resolve()
	if err != nil {
		return err
	}

	c.form.SetAttr("action", c.variant.CreateRoute)
	p.heading.SetText(c.variant.CreateLabel)
	p.primary.SetValue("")
	p.channel.SelectIndex(0)
	p.text.SetValue("")
	p.submit.SetValue(c.variant.CreateLabel)

	containers := c.form.FindAll(buttonContainerSelector)
	for _, container := range containers {
		if _, inside := container.Find(submitSelector); inside {
			p.wrapper.Append(p.submit)
		}
		container.Remove()
	}
	for _, hidden := range c.form.FindAll(recordIDSelector) {
		hidden.Remove()
	}
	if c.variant.Wrapper == Details {
		p.wrapper.RemoveAttr("open")
	}

	c.mode = Create
	c.activeID = ""
	c.hidden = nil
	c.container = nil
	c.cancel = nil
	return nil
}

// EditRecord enters edit mode using the record summary rendered for recordID.
func (c *Controller) EditRecord(recordID, channelID string) error {
	recordID = strings.TrimSpace(recordID)
	if c.mode == Edit && c.activeID == recordID {
		return nil
	}
	summaryID := c.variant.SummaryID(recordID)
	summary, ok := c.doc.ByID(summaryID)
	if !ok {
		return fmt.Errorf("%w: summary #%s not found", ErrMalformedRecordSummary, summaryID)
	}
	return c.EnterEdit(recordID, summary, channelID)
}

// EnterEdit fills the form from a record summary and switches it to edit
// mode. It is a no-op when recordID is already being edited. On error the
// form is left untouched.
func (c *Controller) EnterEdit(recordID string, summary Element, channelID string) error {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return fmt.Errorf("%w: record id is empty", ErrMalformedRecordSummary)
	}
	if c.mode == Edit && c.activeID == recordID {
		return nil
	}

	p, err := c.resolve()
	if err != nil {
		return err
	}
	if !hasOption(p.channel, channelID) {
		return fmt.Errorf("%w: channel option %q in #%s", ErrMissingFormElement, channelID, c.formID)
	}
	fields, err := ParseSummary(summary, c.variant)
	if err != nil {
		return err
	}

	c.form.SetAttr("action", c.variant.EditRoute)
	p.heading.SetText(c.variant.EditLabel)
	p.primary.SetValue(fields.Primary)
	p.channel.SetValue(channelID)
	p.text.SetValue(fields.Text)
	p.submit.SetValue(c.variant.EditLabel)

	if c.hidden == nil {
		c.hidden = c.doc.Create("input")
		c.hidden.SetAttr("type", "hidden")
		c.hidden.SetAttr("name", RecordIDField)
		p.wrapper.Append(c.hidden)
	}
	c.hidden.SetValue(recordID)

	if c.container == nil {
		c.container = c.doc.Create("div")
		c.container.SetAttr("class", ButtonContainerClass)
		p.wrapper.Append(c.container)
		c.container.Append(p.submit)
	}
	if c.cancel == nil {
		c.cancel = c.doc.Create("a")
		c.cancel.SetAttr("href", c.variant.cancelRoute())
		c.cancel.SetAttr("role", "button")
		c.cancel.SetAttr("data-action", CancelAction)
		c.cancel.SetAttr("data-form", c.formID)
		c.cancel.SetText("Cancel")
		c.container.Append(c.cancel)
	}
	if c.variant.Wrapper == Details {
		p.wrapper.SetAttr("open", "")
	}

	c.mode = Edit
	c.activeID = recordID
	return nil
}

// CancelEdit returns an edit-mode form to create mode. In create mode it does
// nothing.
func (c *Controller) CancelEdit() error {
	if c.mode != Edit {
		return nil
	}
	return c.EnterCreate()
}

// Values reads the form's current state.
func (c *Controller) Values() (Values, error) {
	p, err := c.resolve()
	if err != nil {
		return Values{}, err
	}
	action, _ := c.form.Attr("action")
	values := Values{
		Action:  action,
		Primary: p.primary.Value(),
		Channel: p.channel.Value(),
		Text:    p.text.Value(),
	}
	if hidden, ok := c.form.Find(recordIDSelector); ok {
		values.RecordID = hidden.Value()
	}
	return values, nil
}

func (c *Controller) resolve() (parts, error) {
	var p parts
	lookups := []struct {
		dst      *Element
		selector string
	}{
		{&p.wrapper, c.variant.Wrapper.selector()},
		{&p.heading, c.variant.Wrapper.headingSelector()},
		{&p.primary, c.variant.Fields.Primary},
		{&p.channel, c.variant.Fields.Channel},
		{&p.text, c.variant.Fields.Text},
		{&p.submit, submitSelector},
	}
	for _, l := range lookups {
		el, ok := c.form.Find(l.selector)
		if !ok {
			return parts{}, fmt.Errorf("%w: %q in #%s", ErrMissingFormElement, l.selector, c.formID)
		}
		*l.dst = el
	}
	return p, nil
}

func hasOption(sel Element, value string) bool {
	if !strings.EqualFold(sel.Tag(), "select") {
		return true
	}
	for _, option := range sel.FindAll("option") {
		if option.Value() == value {
			return true
		}
	}
	return false
}
