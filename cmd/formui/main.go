//go:build js && wasm

// Command formui is the in-browser form controller for the dashboard. It is
// compiled to WebAssembly and loaded by /static/loader.js.
package main

import (
	"strings"
	"syscall/js"

	"announcement-dashboard/internal/formmode"
	"announcement-dashboard/internal/logging"
)

type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		js.Global().Get("console").Call("log", msg)
	}
	return len(p), nil
}

type app struct {
	doc         *formmode.JSDocument
	logger      logging.Logger
	controllers map[string]*formmode.Controller
	onClick     js.Func
}

func main() {
	a := &app{
		doc:         formmode.NewJSDocument(js.Global().Get("document")),
		logger:      logging.WithPrefix(logging.NewWithWriter(consoleWriter{}), "formui: "),
		controllers: make(map[string]*formmode.Controller),
	}
	if n := formmode.ResetStaleForms(a.doc); n > 0 {
		a.logger.Printf("reset %d forms", n)
	}
	a.bindRenderedForms()

	a.onClick = js.FuncOf(a.handleClick)
	js.Global().Get("document").Call("addEventListener", "click", a.onClick)

	select {}
}

// bindRenderedForms attaches controllers to every creation form on the page
// so a page rendered in edit mode can be cancelled without a reload.
func (a *app) bindRenderedForms() {
	for _, form := range a.doc.FindAll("form[data-variant][data-guild]") {
		name, _ := form.Attr("data-variant")
		guild, _ := form.Attr("data-guild")
		variant, ok := formmode.VariantByName(name)
		if !ok {
			continue
		}
		if _, err := a.controller(variant, guild); err != nil {
			a.logger.Printf("bind %s form for %s: %v", name, guild, err)
		}
	}
}

func (a *app) controller(v formmode.Variant, guild string) (*formmode.Controller, error) {
	formID := v.FormID(guild)
	if c, ok := a.controllers[formID]; ok {
		return c, nil
	}
	c, err := formmode.Bind(a.doc, v, guild)
	if err != nil {
		return nil, err
	}
	a.controllers[formID] = c
	return c, nil
}

func (a *app) handleClick(this js.Value, args []js.Value) any {
	if len(args) == 0 {
		return nil
	}
	event := args[0]
	target := event.Get("target")
	if !target.Truthy() || target.Get("closest").Type() != js.TypeFunction {
		return nil
	}
	trigger, ok := formmode.Wrap(target.Call("closest", "[data-action]"))
	if !ok {
		return nil
	}
	action, _ := trigger.Attr("data-action")
	switch action {
	case formmode.EditAction:
		if a.edit(trigger) {
			event.Call("preventDefault")
		}
	case formmode.CancelAction:
		if a.cancel(trigger) {
			event.Call("preventDefault")
		}
	}
	return nil
}

// edit switches the guild's form to edit the clicked record. It returns false
// when the browser should follow the link and let the server render the edit.
func (a *app) edit(trigger formmode.Element) bool {
	recordID, _ := trigger.Attr("data-announcement")
	guild, _ := trigger.Attr("data-guild")
	channel, _ := trigger.Attr("data-channel")
	kind, _ := trigger.Attr("data-kind")

	variant := a.variantFor(kind, guild)
	c, err := a.controller(variant, guild)
	if err != nil {
		a.logger.Printf("edit %s: %v", recordID, err)
		return false
	}
	if err := c.EditRecord(recordID, channel); err != nil {
		a.logger.Printf("edit %s: %v", recordID, err)
		return false
	}
	if form, ok := a.doc.ByID(c.FormID()); ok {
		if v, ok := formmode.Value(form); ok {
			v.Call("scrollIntoView")
		}
	}
	return true
}

func (a *app) cancel(trigger formmode.Element) bool {
	formID, _ := trigger.Attr("data-form")
	c, ok := a.controllers[formID]
	if !ok {
		return false
	}
	if err := c.CancelEdit(); err != nil {
		a.logger.Printf("cancel edit in %s: %v", formID, err)
		return false
	}
	location := js.Global().Get("location")
	if strings.Contains(location.Get("search").String(), "edit=") {
		js.Global().Get("history").Call("replaceState", nil, "", location.Get("pathname"))
	}
	return true
}

// variantFor picks the variant of the guild's creation form for a record
// kind, honouring the labels the page was rendered with.
func (a *app) variantFor(kind, guild string) formmode.Variant {
	if kind == "youtube" {
		return formmode.YouTubeAnnouncement
	}
	if form, ok := a.doc.ByID(formmode.Announcement.FormID(guild)); ok {
		if name, ok := form.Attr("data-variant"); ok {
			if v, ok := formmode.VariantByName(name); ok {
				return v
			}
		}
	}
	return formmode.Announcement
}
