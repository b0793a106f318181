package coyote

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-coyote/internal"
	"github.com/itsatony/go-cuserr"
)

// Sentinel errors, matched with errors.Is against any render error
var (
	ErrInvalidAttribute    = internal.ErrInvalidAttribute
	ErrUnbalancedTemplate  = internal.ErrUnbalancedTemplate
	ErrDocumentMemoryLimit = internal.ErrDocumentMemoryLimit
)

// ComposeError is the typed error carried inside render errors
type ComposeError = internal.ComposeError

// NewInvalidAttributeError creates an error for an attribute name holding a forbidden glyph
func NewInvalidAttributeError(attr string, index int, glyph rune) error {
	return wrapComposeError(internal.NewInvalidAttributeError(attr, index, glyph))
}

// NewUnbalancedTemplateError creates an error for a template that leaves its nesting depth changed
func NewUnbalancedTemplateError(template string) error {
	return wrapComposeError(internal.NewUnbalancedTemplateError(template))
}

// NewDocumentLimitError creates an error for output grown past the document limit
func NewDocumentLimitError(limit, length int) error {
	return wrapComposeError(internal.NewDocumentLimitError(limit, length))
}

// wrapComposeError converts internal render errors into cuserr errors.
// The ComposeError stays in the chain so errors.Is and errors.As keep working.
func wrapComposeError(err error) error {
	if err == nil {
		return nil
	}

	var composeErr *internal.ComposeError
	if !errors.As(err, &composeErr) {
		return cuserr.WrapStdError(err, ErrCodeUnbalanced, ErrMsgRenderFailed)
	}

	switch composeErr.Err {
	case internal.ErrInvalidAttribute:
		return cuserr.WrapStdError(err, ErrCodeAttribute, ErrMsgInvalidAttribute).
			WithMetadata(MetaKeyAttribute, composeErr.Attribute).
			WithMetadata(MetaKeyIndex, strconv.Itoa(composeErr.Index)).
			WithMetadata(MetaKeyGlyph, string(composeErr.Glyph))
	case internal.ErrDocumentMemoryLimit:
		return cuserr.WrapStdError(err, ErrCodeLimit, ErrMsgDocumentLimit).
			WithMetadata(MetaKeyLimit, strconv.Itoa(composeErr.Limit)).
			WithMetadata(MetaKeyLength, strconv.Itoa(composeErr.Length))
	default:
		return cuserr.WrapStdError(err, ErrCodeUnbalanced, ErrMsgUnbalancedTemplate).
			WithMetadata(MetaKeyTemplate, composeErr.Template)
	}
}

// NewUnknownRulesetError creates an error for a ruleset name with no policy behind it
func NewUnknownRulesetError(name string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnknownRuleset).
		WithMetadata(MetaKeyRuleset, name)
}

// NewNilRulesetError creates an error for a document built without rules
func NewNilRulesetError() error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgNilRuleset)
}

// NewLoadParamsError wraps a params decoding failure
func NewLoadParamsError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgLoadParams)
}

// NewDecodeContentError wraps a content document decoding failure
func NewDecodeContentError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeContent, ErrMsgDecodeContent)
}

// NewContentNodeError reports a content node that cannot be turned into a component
func NewContentNodeError(msg, kind string) error {
	return cuserr.NewValidationError(ErrCodeContent, msg).
		WithMetadata(MetaKeyKind, kind)
}

// NewTemplateNotFoundError creates an error for a template missing from storage
func NewTemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyTemplateName, name)
}

// IsTemplateNotFound reports whether err says a stored template is missing
func IsTemplateNotFound(err error) bool {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	_, ok := customErr.GetMetadata(MetaKeyTemplateName)
	return ok
}
