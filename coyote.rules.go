package coyote

import (
	"io"

	"github.com/itsatony/go-coyote/internal"
	"gopkg.in/yaml.v3"
)

// Ruleset classifies tags and carries the document policy. Implement it to
// render a markup dialect the bundled rules do not cover.
type Ruleset = internal.Ruleset

// DocumentParams holds the tunable parts of a ruleset
type DocumentParams = internal.DocumentParams

// Bundled rulesets
type (
	HTMLRules       = internal.HTMLRules
	ClientHTMLRules = internal.ClientHTMLRules
	XMLRules        = internal.XMLRules
)

// Default memory limits in bytes
const (
	DefaultCacheMemoryLimit    = internal.DefaultCacheMemoryLimit
	DefaultDocumentMemoryLimit = internal.DefaultDocumentMemoryLimit
)

// DefaultHTMLParams returns params for indented HTML output
func DefaultHTMLParams() DocumentParams { return internal.DefaultHTMLParams() }

// DefaultClientHTMLParams returns params for compact client HTML output
func DefaultClientHTMLParams() DocumentParams { return internal.DefaultClientHTMLParams() }

// DefaultXMLParams returns params for XML output
func DefaultXMLParams() DocumentParams { return internal.DefaultXMLParams() }

// NewHTMLRules creates HTML rules
func NewHTMLRules(params DocumentParams) *HTMLRules { return internal.NewHTMLRules(params) }

// NewClientHTMLRules creates client HTML rules. Indentation is always off.
func NewClientHTMLRules(params DocumentParams) *ClientHTMLRules {
	return internal.NewClientHTMLRules(params)
}

// NewXMLRules creates XML rules
func NewXMLRules(params DocumentParams) *XMLRules { return internal.NewXMLRules(params) }

// DefaultParams returns the default params for a ruleset name
func DefaultParams(name string) (DocumentParams, error) {
	switch name {
	case RulesetNameHTML:
		return DefaultHTMLParams(), nil
	case RulesetNameClient:
		return DefaultClientHTMLParams(), nil
	case RulesetNameXML:
		return DefaultXMLParams(), nil
	}
	return DocumentParams{}, NewUnknownRulesetError(name)
}

// RulesetByName builds the named ruleset ("html", "client" or "xml") from params
func RulesetByName(name string, params DocumentParams) (Ruleset, error) {
	switch name {
	case RulesetNameHTML:
		return NewHTMLRules(params), nil
	case RulesetNameClient:
		return NewClientHTMLRules(params), nil
	case RulesetNameXML:
		return NewXMLRules(params), nil
	}
	return nil, NewUnknownRulesetError(name)
}

// LoadParams decodes YAML params on top of base. Keys missing from the
// document keep their base value.
//
//	cache_memory_limit: 1048576
//	document_memory_limit: 65536
//	respect_indentation: false
//	initial_namespace: svg
func LoadParams(r io.Reader, base DocumentParams) (DocumentParams, error) {
	params := base
	if err := yaml.NewDecoder(r).Decode(&params); err != nil && err != io.EOF {
		return base, NewLoadParamsError(err)
	}
	return params, nil
}
