package internal

// StepKind identifies the lexical state a step was produced in
type StepKind int

// Step kind constants
const (
	StepKindInitial StepKind = iota
	StepKindAttr
	StepKindAttrDoubleQuote
	StepKindAttrDoubleQuoteClosed
	StepKindAttrMapInjection
	StepKindAttrSetter
	StepKindAttrSingleQuote
	StepKindAttrSingleQuoteClosed
	StepKindAttrValueDoubleQuoted
	StepKindAttrValueSingleQuoted
	StepKindAttrValueUnquoted
	StepKindDescendantInjection
	StepKindElement
	StepKindElementClosed
	StepKindElementSpace
	StepKindEmptyElement
	StepKindEmptyElementClosed
	StepKindFragment
	StepKindFragmentClosed
	StepKindInjectionConfirmed
	StepKindInjectionSpace
	StepKindTag
	StepKindTailElementClosed
	StepKindTailElementSolidus
	StepKindTailElementSpace
	StepKindTailTag
	StepKindText
	StepKindTextAlt
	StepKindTextSpace
)

// Step kind string names for debugging
const (
	StepKindNameInitial               = "Initial"
	StepKindNameAttr                  = "Attr"
	StepKindNameAttrDoubleQuote       = "AttrDoubleQuote"
	StepKindNameAttrDoubleQuoteClosed = "AttrDoubleQuoteClosed"
	StepKindNameAttrMapInjection      = "AttrMapInjection"
	StepKindNameAttrSetter            = "AttrSetter"
	StepKindNameAttrSingleQuote       = "AttrSingleQuote"
	StepKindNameAttrSingleQuoteClosed = "AttrSingleQuoteClosed"
	StepKindNameAttrValueDoubleQuoted = "AttrValueDoubleQuoted"
	StepKindNameAttrValueSingleQuoted = "AttrValueSingleQuoted"
	StepKindNameAttrValueUnquoted     = "AttrValueUnquoted"
	StepKindNameDescendantInjection   = "DescendantInjection"
	StepKindNameElement               = "Element"
	StepKindNameElementClosed         = "ElementClosed"
	StepKindNameElementSpace          = "ElementSpace"
	StepKindNameEmptyElement          = "EmptyElement"
	StepKindNameEmptyElementClosed    = "EmptyElementClosed"
	StepKindNameFragment              = "Fragment"
	StepKindNameFragmentClosed        = "FragmentClosed"
	StepKindNameInjectionConfirmed    = "InjectionConfirmed"
	StepKindNameInjectionSpace        = "InjectionSpace"
	StepKindNameTag                   = "Tag"
	StepKindNameTailElementClosed     = "TailElementClosed"
	StepKindNameTailElementSolidus    = "TailElementSolidus"
	StepKindNameTailElementSpace      = "TailElementSpace"
	StepKindNameTailTag               = "TailTag"
	StepKindNameText                  = "Text"
	StepKindNameTextAlt               = "TextAlt"
	StepKindNameTextSpace             = "TextSpace"
	StepKindNameUnknown               = "Unknown"
)

var stepKindNames = map[StepKind]string{
	StepKindInitial:               StepKindNameInitial,
	StepKindAttr:                  StepKindNameAttr,
	StepKindAttrDoubleQuote:       StepKindNameAttrDoubleQuote,
	StepKindAttrDoubleQuoteClosed: StepKindNameAttrDoubleQuoteClosed,
	StepKindAttrMapInjection:      StepKindNameAttrMapInjection,
	StepKindAttrSetter:            StepKindNameAttrSetter,
	StepKindAttrSingleQuote:       StepKindNameAttrSingleQuote,
	StepKindAttrSingleQuoteClosed: StepKindNameAttrSingleQuoteClosed,
	StepKindAttrValueDoubleQuoted: StepKindNameAttrValueDoubleQuoted,
	StepKindAttrValueSingleQuoted: StepKindNameAttrValueSingleQuoted,
	StepKindAttrValueUnquoted:     StepKindNameAttrValueUnquoted,
	StepKindDescendantInjection:   StepKindNameDescendantInjection,
	StepKindElement:               StepKindNameElement,
	StepKindElementClosed:         StepKindNameElementClosed,
	StepKindElementSpace:          StepKindNameElementSpace,
	StepKindEmptyElement:          StepKindNameEmptyElement,
	StepKindEmptyElementClosed:    StepKindNameEmptyElementClosed,
	StepKindFragment:              StepKindNameFragment,
	StepKindFragmentClosed:        StepKindNameFragmentClosed,
	StepKindInjectionConfirmed:    StepKindNameInjectionConfirmed,
	StepKindInjectionSpace:        StepKindNameInjectionSpace,
	StepKindTag:                   StepKindNameTag,
	StepKindTailElementClosed:     StepKindNameTailElementClosed,
	StepKindTailElementSolidus:    StepKindNameTailElementSolidus,
	StepKindTailElementSpace:      StepKindNameTailElementSpace,
	StepKindTailTag:               StepKindNameTailTag,
	StepKindText:                  StepKindNameText,
	StepKindTextAlt:               StepKindNameTextAlt,
	StepKindTextSpace:             StepKindNameTextSpace,
}

// String returns the string representation of the step kind
func (k StepKind) String() string {
	if name, ok := stepKindNames[k]; ok {
		return name
	}
	return StepKindNameUnknown
}

// IsInjection reports whether the kind opens an injection slot
func (k StepKind) IsInjection() bool {
	return k == StepKindAttrMapInjection || k == StepKindDescendantInjection
}

// TextFormat tracks what separator the next token needs
type TextFormat int

// Text format constants
const (
	FormatInitial TextFormat = iota
	FormatSpace
	FormatLineSpace
	FormatText
)

// Markup characters
const (
	CharLessThan    = '<'
	CharGreaterThan = '>'
	CharSolidus     = '/'
	CharEquals      = '='
	CharOpenBrace   = '{'
	CharCloseBrace  = '}'
	CharSingleQuote = '\''
	CharDoubleQuote = '"'
	CharNewline     = '\n'
	CharTab         = '\t'
	CharSpace       = ' '
)

// Markup strings written during composition
const (
	StrOpenTag        = "<"
	StrCloseTagStart  = "</"
	StrCloseTag       = ">"
	StrSelfCloseTag   = "/>"
	StrNewline        = "\n"
	StrTab            = "\t"
	StrSpace          = " "
	StrAttrSetter     = "="
	StrSingleQuote    = "'"
	StrDoubleQuote    = "\""
	StrEscapedLess    = "&lt;"
	StrEscapedBrace   = "&#123;"
	StrEscapedQuote   = "&quot;"
	StrRootTag        = ":root"
	StrHTMLNamespace  = "html"
	StrXMLNamespace   = "xml"
	StrForbiddenGlyph = "<=\"'/>{"
)

// Error messages
const (
	ErrMsgInvalidAttribute   = "invalid attribute"
	ErrMsgUnbalancedTemplate = "unbalanced template"
	ErrMsgDocumentLimit      = "document exceeded memory limit"
	ErrMsgComposeFailed      = "compose failed"

	ErrFmtInvalidAttribute   = "The following attribute: %s\ncontains the invalid glyph: *%c*\nat index: %d"
	ErrFmtUnbalancedTemplate = "The following template is unbalanced:\n%s"
	ErrFmtDocumentLimit      = "Document exceeded memory limit: %d/%d"
)

// Log messages
const (
	LogMsgLexerCreated     = "lexer created"
	LogMsgTokenizerStart   = "starting tokenization"
	LogMsgTokenizerDone    = "tokenization complete"
	LogMsgContentlessOpen  = "contentless element opened"
	LogMsgAltTextOpen      = "alt-text element opened"
	LogMsgStepsCompiled    = "template steps compiled"
	LogMsgCacheHit         = "step cache hit"
	LogMsgCacheMiss        = "step cache miss"
	LogMsgCacheEvicted     = "step cache evicted"
	LogMsgComposeStart     = "starting composition"
	LogMsgComposeDone      = "composition complete"
	LogMsgComposeFailed    = "composition failed"
	LogMsgClosingDropped   = "mismatched closing tag dropped"
	LogMsgAttrSlotIgnored  = "non-attribute value in attribute slot ignored"
	LogMsgInjectionMissing = "injection slot has no value"
)

// Log field names
const (
	LogFieldTemplateLen = "template_len"
	LogFieldSteps       = "steps"
	LogFieldChunks      = "chunks"
	LogFieldInjections  = "injections"
	LogFieldTag         = "tag"
	LogFieldExpected    = "expected"
	LogFieldFootprint   = "footprint"
	LogFieldLimit       = "limit"
	LogFieldEntries     = "entries"
	LogFieldOutputLen   = "output_len"
	LogFieldIndex       = "index"
	LogFieldError       = "error"
)

// StepByteSize approximates the in-memory size of one Step for cache accounting
const StepByteSize = 32
