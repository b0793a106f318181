package internal

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is
var (
	ErrInvalidAttribute    = errors.New(ErrMsgInvalidAttribute)
	ErrUnbalancedTemplate  = errors.New(ErrMsgUnbalancedTemplate)
	ErrDocumentMemoryLimit = errors.New(ErrMsgDocumentLimit)
)

// ComposeError describes why a render was aborted
type ComposeError struct {
	Err       error
	Attribute string
	Index     int
	Glyph     rune
	Template  string
	Limit     int
	Length    int
}

// Error implements the error interface.
func (e *ComposeError) Error() string {
	switch e.Err {
	case ErrInvalidAttribute:
		return fmt.Sprintf(ErrFmtInvalidAttribute, e.Attribute, e.Glyph, e.Index)
	case ErrUnbalancedTemplate:
		return fmt.Sprintf(ErrFmtUnbalancedTemplate, e.Template)
	case ErrDocumentMemoryLimit:
		return fmt.Sprintf(ErrFmtDocumentLimit, e.Length, e.Limit)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrMsgComposeFailed
}

// Unwrap returns the sentinel.
func (e *ComposeError) Unwrap() error {
	return e.Err
}

// NewInvalidAttributeError reports a forbidden glyph at a character index
func NewInvalidAttributeError(attr string, index int, glyph rune) *ComposeError {
	return &ComposeError{
		Err:       ErrInvalidAttribute,
		Attribute: attr,
		Index:     index,
		Glyph:     glyph,
	}
}

// NewUnbalancedTemplateError reports a template that left elements open or closed too many
func NewUnbalancedTemplateError(template string) *ComposeError {
	return &ComposeError{
		Err:      ErrUnbalancedTemplate,
		Template: template,
	}
}

// NewDocumentLimitError reports output growing past the configured limit
func NewDocumentLimitError(limit, length int) *ComposeError {
	return &ComposeError{
		Err:    ErrDocumentMemoryLimit,
		Limit:  limit,
		Length: length,
	}
}

// ValidateAttrName rejects names containing whitespace or markup glyphs.
// The index is counted in characters.
func ValidateAttrName(name string) error {
	index := 0
	for _, r := range name {
		if isForbiddenGlyph(r) {
			return NewInvalidAttributeError(name, index, r)
		}
		index++
	}
	return nil
}
