package internal

import (
	"strings"
	"unicode"
)

// Component is a node of the content tree handed to a render.
// A nil Component fills an injection slot with nothing.
type Component interface {
	componentNode()
}

// Text is escaped before it is written
type Text string

// UnescapedText is written as is
type UnescapedText string

// Attr is a valueless attribute
type Attr string

// AttrVal is an attribute with a value, written double-quoted
type AttrVal struct {
	Name  string
	Value string
}

// List is an ordered group of components
type List []Component

// Template is a template string with one value per injection slot
type Template struct {
	Source     string
	Injections []Component
}

func (Text) componentNode()          {}
func (UnescapedText) componentNode() {}
func (Attr) componentNode()          {}
func (AttrVal) componentNode()       {}
func (List) componentNode()          {}
func (*Template) componentNode()     {}

// Injection returns the value for slot index, or nil when the slot has none
func (t *Template) Injection(index int) Component {
	if index < 0 || index >= len(t.Injections) {
		return nil
	}
	return t.Injections[index]
}

func isForbiddenGlyph(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(StrForbiddenGlyph, r)
}
