package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attribute creates an arbitrary attribute.
func Attribute(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// Links and media

func Href(url string) Attr  { return attr("href", url) }
func Src(url string) Attr   { return attr("src", url) }
func Alt(text string) Attr  { return attr("alt", text) }
func Lang(lang string) Attr { return attr("lang", lang) }

// Width sets the width attribute. CSS lengths such as "64px" are accepted.
func Width(w string) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h string) Attr { return attr("height", h) }

// Form attributes

func Type(t string) Attr     { return attr("type", t) }
func Name(n string) Attr     { return attr("name", n) }
func Value(v string) Attr    { return attr("value", v) }
func For(id string) Attr     { return attr("for", id) }
func Action(url string) Attr { return attr("action", url) }
func Method(m string) Attr   { return attr("method", m) }
func EncType(t string) Attr  { return attr("enctype", t) }

// Accept restricts the file types offered by a file input (e.g. "image/*").
func Accept(types string) Attr { return attr("accept", types) }

// Capture hints which camera a file input should open on capable devices.
// See https://caniuse.com/html-media-capture.
func Capture(facing string) Attr { return attr("capture", facing) }

// Boolean attributes

func Multiple(b bool) Attr { return attr("multiple", b) }
func Disabled(b bool) Attr { return attr("disabled", b) }
func Defer(b bool) Attr    { return attr("defer", b) }
