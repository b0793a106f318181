package coyote

import (
	"context"
	"fmt"

	"github.com/itsatony/go-coyote/internal"
	"go.uber.org/zap"
)

// Document renders content trees under one ruleset.
// A Document is safe for concurrent use; each render has its own state.
type Document struct {
	rules  Ruleset
	cache  *StepCache
	logger *zap.Logger
}

// New creates a Document for the given ruleset.
func New(rules Ruleset, opts ...Option) (*Document, error) {
	if rules == nil {
		return nil, NewNilRulesetError()
	}

	config := defaultDocumentConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.params != nil {
		rules = withParams(rules, *config.params)
	}

	cache := config.cache
	if cache == nil {
		cache = internal.NewStepCache(logger)
	}

	logger.Debug(LogMsgDocumentCreated, zap.String(LogFieldRuleset, fmt.Sprintf("%T", rules)))

	return &Document{
		rules:  rules,
		cache:  cache,
		logger: logger,
	}, nil
}

// MustNew creates a new Document and panics if there's an error.
func MustNew(rules Ruleset, opts ...Option) *Document {
	doc, err := New(rules, opts...)
	if err != nil {
		panic(err)
	}
	return doc
}

// NewHTML creates a Document with the default HTML rules.
func NewHTML(opts ...Option) *Document {
	return MustNew(NewHTMLRules(DefaultHTMLParams()), opts...)
}

// NewClientHTML creates a Document with the default client HTML rules.
func NewClientHTML(opts ...Option) *Document {
	return MustNew(NewClientHTMLRules(DefaultClientHTMLParams()), opts...)
}

// NewXML creates a Document with the default XML rules.
func NewXML(opts ...Option) *Document {
	return MustNew(NewXMLRules(DefaultXMLParams()), opts...)
}

func withParams(rules Ruleset, params DocumentParams) Ruleset {
	switch rules.(type) {
	case *HTMLRules:
		return NewHTMLRules(params)
	case *ClientHTMLRules:
		return NewClientHTMLRules(params)
	case *XMLRules:
		return NewXMLRules(params)
	}
	return rules
}

// Rules returns the document's ruleset
func (d *Document) Rules() Ruleset {
	return d.rules
}

// Cache returns the document's step cache
func (d *Document) Cache() *StepCache {
	return d.cache
}

// Render composes a content tree into markup.
func (d *Document) Render(root Component) (string, error) {
	d.logger.Debug(LogMsgRenderStart)

	out, err := internal.Compose(d.cache, d.rules, root, d.logger)
	if err != nil {
		d.logger.Debug(LogMsgRenderFailed, zap.Error(err))
		return "", wrapComposeError(err)
	}

	d.logger.Debug(LogMsgRenderDone, zap.Int(LogFieldOutputLen, len(out)))
	return out, nil
}

// RenderTemplate renders a single template with its injections.
func (d *Document) RenderTemplate(template string, injections ...Component) (string, error) {
	return d.Render(Tmpl(template, injections...))
}

// Steps returns the compiled steps of a template, through the cache.
func (d *Document) Steps(template string) *TemplateSteps {
	return d.cache.Build(d.rules, template)
}

// Validate renders a template with every slot empty and reports markup
// errors such as unbalanced elements.
func (d *Document) Validate(source string) error {
	_, err := d.RenderTemplate(source)
	return err
}

// RenderStored loads the latest version of a stored template and renders it.
func (d *Document) RenderStored(ctx context.Context, storage TemplateStorage, name string, injections ...Component) (string, error) {
	stored, err := storage.Get(ctx, name)
	if err != nil {
		return "", err
	}

	d.logger.Debug(LogMsgStoredLoaded,
		zap.String(LogFieldName, stored.Name),
		zap.Int(LogFieldVersion, stored.Version))

	return d.RenderTemplate(stored.Source, injections...)
}

// SaveTemplate validates a template's markup under the document's rules and
// stores it as a new version. Invalid markup is never persisted.
func (d *Document) SaveTemplate(ctx context.Context, storage TemplateStorage, tmpl *StoredTemplate) error {
	if err := d.Validate(tmpl.Source); err != nil {
		return err
	}
	if err := storage.Save(ctx, tmpl); err != nil {
		return err
	}

	d.logger.Debug(LogMsgStoredSaved,
		zap.String(LogFieldName, tmpl.Name),
		zap.Int(LogFieldVersion, tmpl.Version))
	return nil
}
