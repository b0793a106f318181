package internal

import "strings"

// Ruleset classifies tags and carries the document policy used during
// tokenization and composition.
type Ruleset interface {
	InitialNamespace() string
	TagIsNamespaceEl(tag string) bool
	TagIsVoidEl(tag string) bool
	TagIsBannedEl(tag string) bool
	TagIsInlineEl(tag string) bool
	TagIsPreformattedEl(tag string) bool

	// TagIsContentlessEl returns the contentless prefix the tag starts with, if any.
	TagIsContentlessEl(tag string) (string, bool)
	GetContentlessCloseSequence(tag string) (string, bool)
	GetContentlessTagFromCloseSequence(seq string) (string, bool)

	GetAltTextCloseSequence(tag string) (string, bool)
	GetAltTextTagFromCloseSequence(seq string) (string, bool)

	RespectIndentation() bool
	CacheMemoryLimit() int
	DocumentMemoryLimit() int
}

// DocumentParams holds the tunable parts of a ruleset
type DocumentParams struct {
	CacheMemoryLimit    int    `yaml:"cache_memory_limit" json:"cache_memory_limit"`
	DocumentMemoryLimit int    `yaml:"document_memory_limit" json:"document_memory_limit"`
	RespectIndentation  bool   `yaml:"respect_indentation" json:"respect_indentation"`
	InitialNamespace    string `yaml:"initial_namespace" json:"initial_namespace"`
}

// Default memory limits in bytes
const (
	DefaultCacheMemoryLimit    = 16 * 1024 * 1024
	DefaultDocumentMemoryLimit = 16 * 1024 * 1024
)

// DefaultHTMLParams returns params for indented HTML output
func DefaultHTMLParams() DocumentParams {
	return DocumentParams{
		CacheMemoryLimit:    DefaultCacheMemoryLimit,
		DocumentMemoryLimit: DefaultDocumentMemoryLimit,
		RespectIndentation:  true,
		InitialNamespace:    StrHTMLNamespace,
	}
}

// DefaultClientHTMLParams returns params for compact client HTML output
func DefaultClientHTMLParams() DocumentParams {
	params := DefaultHTMLParams()
	params.RespectIndentation = false
	return params
}

// DefaultXMLParams returns params for XML output
func DefaultXMLParams() DocumentParams {
	return DocumentParams{
		CacheMemoryLimit:    DefaultCacheMemoryLimit,
		DocumentMemoryLimit: DefaultDocumentMemoryLimit,
		RespectIndentation:  false,
		InitialNamespace:    StrXMLNamespace,
	}
}

// normalized fills zero limits with defaults. Limits are never disabled.
func (p DocumentParams) normalized(namespace string) DocumentParams {
	if p.CacheMemoryLimit <= 0 {
		p.CacheMemoryLimit = DefaultCacheMemoryLimit
	}
	if p.DocumentMemoryLimit <= 0 {
		p.DocumentMemoryLimit = DefaultDocumentMemoryLimit
	}
	if p.InitialNamespace == "" {
		p.InitialNamespace = namespace
	}
	return p
}

type tagSet map[string]struct{}

func newTagSet(tags ...string) tagSet {
	set := make(tagSet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

func (s tagSet) has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// contentlessEl pairs an opening prefix with its closing delimiter.
// The delimiter always ends in '>'; the rest of it is the closing tag text.
type contentlessEl struct {
	prefix string
	close  string
}

func (c contentlessEl) tailTag() string {
	return strings.TrimSuffix(c.close, StrCloseTag)
}

var (
	htmlContentless = []contentlessEl{
		{prefix: "!--", close: "-->"},
	}
	xmlContentless = []contentlessEl{
		{prefix: "![CDATA[", close: "]]>"},
		{prefix: "!--", close: "-->"},
		{prefix: "?", close: "?>"},
	}

	htmlAltText = map[string]string{
		"script": "</script",
		"style":  "</style",
	}

	htmlNamespaces   = newTagSet("html", "math", "svg")
	htmlPreformatted = newTagSet("pre")
	htmlVoid         = newTagSet(
		"!DOCTYPE", "area", "base", "br", "col", "embed", "hr", "img",
		"input", "link", "meta", "param", "source", "track", "wbr",
	)
	htmlBanned = newTagSet(
		"acronym", "big", "center", "content", "dir", "font", "frame",
		"frameset", "image", "marquee", "menuitem", "nobr", "noembed",
		"noframes", "param", "plaintext", "rb", "rtc", "shadow", "strike",
		"tt", "xmp",
	)
	htmlInline = newTagSet(
		"a", "abbr", "b", "bdi", "bdo", "cite", "code", "data", "dfn", "em",
		"i", "kbd", "mark", "q", "rp", "rt", "ruby", "s", "samp", "small",
		"span", "strong", "sub", "sup", "time", "u", "var",
	)
	clientBanned = newTagSet("link", "script", "style")

	xmlPreformatted = newTagSet("![CDATA[")
)

func findContentless(table []contentlessEl, tag string) (contentlessEl, bool) {
	for _, el := range table {
		if strings.HasPrefix(tag, el.prefix) {
			return el, true
		}
	}
	return contentlessEl{}, false
}

func contentlessClose(table []contentlessEl, tag string) (string, bool) {
	for _, el := range table {
		if el.prefix == tag {
			return el.close, true
		}
	}
	return "", false
}

func contentlessFromClose(table []contentlessEl, seq string) (string, bool) {
	for _, el := range table {
		if el.tailTag() == seq {
			return el.prefix, true
		}
	}
	return "", false
}

// HTMLRules is the HTML5 policy: indentation on, deprecated tags banned
type HTMLRules struct {
	params DocumentParams
}

// NewHTMLRules creates HTML rules from params
func NewHTMLRules(params DocumentParams) *HTMLRules {
	return &HTMLRules{params: params.normalized(StrHTMLNamespace)}
}

func (r *HTMLRules) InitialNamespace() string           { return r.params.InitialNamespace }
func (r *HTMLRules) TagIsNamespaceEl(tag string) bool    { return htmlNamespaces.has(tag) }
func (r *HTMLRules) TagIsVoidEl(tag string) bool         { return htmlVoid.has(tag) }
func (r *HTMLRules) TagIsBannedEl(tag string) bool       { return htmlBanned.has(tag) }
func (r *HTMLRules) TagIsInlineEl(tag string) bool       { return htmlInline.has(tag) }
func (r *HTMLRules) TagIsPreformattedEl(tag string) bool { return htmlPreformatted.has(tag) }
func (r *HTMLRules) RespectIndentation() bool            { return r.params.RespectIndentation }
func (r *HTMLRules) CacheMemoryLimit() int               { return r.params.CacheMemoryLimit }
func (r *HTMLRules) DocumentMemoryLimit() int            { return r.params.DocumentMemoryLimit }

func (r *HTMLRules) TagIsContentlessEl(tag string) (string, bool) {
	el, ok := findContentless(htmlContentless, tag)
	return el.prefix, ok
}

func (r *HTMLRules) GetContentlessCloseSequence(tag string) (string, bool) {
	return contentlessClose(htmlContentless, tag)
}

func (r *HTMLRules) GetContentlessTagFromCloseSequence(seq string) (string, bool) {
	return contentlessFromClose(htmlContentless, seq)
}

func (r *HTMLRules) GetAltTextCloseSequence(tag string) (string, bool) {
	seq, ok := htmlAltText[tag]
	return seq, ok
}

func (r *HTMLRules) GetAltTextTagFromCloseSequence(seq string) (string, bool) {
	for tag, close := range htmlAltText {
		if close == seq {
			return tag, true
		}
	}
	return "", false
}

// ClientHTMLRules is the compact HTML policy used for markup injected into
// an existing page: no indentation, every tag inline, and link/script/style
// banned on top of the HTML list.
type ClientHTMLRules struct {
	HTMLRules
}

// NewClientHTMLRules creates client HTML rules from params
func NewClientHTMLRules(params DocumentParams) *ClientHTMLRules {
	params.RespectIndentation = false
	return &ClientHTMLRules{HTMLRules: HTMLRules{params: params.normalized(StrHTMLNamespace)}}
}

func (r *ClientHTMLRules) TagIsBannedEl(tag string) bool {
	return htmlBanned.has(tag) || clientBanned.has(tag)
}

func (r *ClientHTMLRules) TagIsInlineEl(string) bool { return true }

// XMLRules is the generic XML policy: no void, banned or alt-text elements
type XMLRules struct {
	params DocumentParams
}

// NewXMLRules creates XML rules from params
func NewXMLRules(params DocumentParams) *XMLRules {
	return &XMLRules{params: params.normalized(StrXMLNamespace)}
}

func (r *XMLRules) InitialNamespace() string           { return r.params.InitialNamespace }
func (r *XMLRules) TagIsNamespaceEl(string) bool        { return false }
func (r *XMLRules) TagIsVoidEl(string) bool             { return false }
func (r *XMLRules) TagIsBannedEl(string) bool           { return false }
func (r *XMLRules) TagIsInlineEl(string) bool           { return false }
func (r *XMLRules) TagIsPreformattedEl(tag string) bool { return xmlPreformatted.has(tag) }
func (r *XMLRules) RespectIndentation() bool            { return r.params.RespectIndentation }
func (r *XMLRules) CacheMemoryLimit() int               { return r.params.CacheMemoryLimit }
func (r *XMLRules) DocumentMemoryLimit() int            { return r.params.DocumentMemoryLimit }

func (r *XMLRules) TagIsContentlessEl(tag string) (string, bool) {
	el, ok := findContentless(xmlContentless, tag)
	return el.prefix, ok
}

func (r *XMLRules) GetContentlessCloseSequence(tag string) (string, bool) {
	return contentlessClose(xmlContentless, tag)
}

func (r *XMLRules) GetContentlessTagFromCloseSequence(seq string) (string, bool) {
	return contentlessFromClose(xmlContentless, seq)
}

func (r *XMLRules) GetAltTextCloseSequence(string) (string, bool) { return "", false }

func (r *XMLRules) GetAltTextTagFromCloseSequence(string) (string, bool) { return "", false }
