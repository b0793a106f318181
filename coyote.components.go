package coyote

import "github.com/itsatony/go-coyote/internal"

// Component is a node of the content tree. A nil Component fills an
// injection slot with nothing.
type Component = internal.Component

// Content tree node types
type (
	Text          = internal.Text
	UnescapedText = internal.UnescapedText
	Attr          = internal.Attr
	AttrVal       = internal.AttrVal
	List          = internal.List
	Template      = internal.Template
)

// Tmpl creates a template node. Injections fill the {} slots in order.
func Tmpl(source string, injections ...Component) *Template {
	return &Template{Source: source, Injections: injections}
}

// TextOf creates a text node; < and { are escaped on output
func TextOf(text string) Text {
	return Text(text)
}

// Unescaped creates a text node written as is
func Unescaped(text string) UnescapedText {
	return UnescapedText(text)
}

// AttrOf creates a valueless attribute
func AttrOf(name string) Attr {
	return Attr(name)
}

// AttrValOf creates an attribute with a value
func AttrValOf(name, value string) AttrVal {
	return AttrVal{Name: name, Value: value}
}

// ListOf groups components
func ListOf(components ...Component) List {
	return List(components)
}
