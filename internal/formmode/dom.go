// Package formmode switches an announcement form between its add and edit
// presentations. The controller is written against a small DOM abstraction so
// the same transitions run in the browser (syscall/js) and on the server over
// a goquery document.
package formmode

// Document is the page-level view of the DOM used by the controller.
type Document interface {
	// ByID returns the element with the given id attribute.
	ByID(id string) (Element, bool)
	// Create returns a new detached element.
	Create(tag string) Element
	// FindAll returns every element in the page matching the CSS selector.
	FindAll(selector string) []Element
}

// Element is a single DOM node.
type Element interface {
	Find(selector string) (Element, bool)
	FindAll(selector string) []Element
	Tag() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)
	// Text returns the rendered text, with line breaks where the browser's
	// innerText would put them.
	Text() string
	SetText(text string)
	// Value and SetValue follow the form-control rules for input, textarea
	// and select elements.
	Value() string
	SetValue(value string)
	SelectIndex(index int)
	Append(child Element)
	Remove()
	// Reset restores every control inside the element to its default state.
	Reset()
}
