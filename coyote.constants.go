package coyote

import "time"

// Ruleset names accepted by RulesetByName
const (
	RulesetNameHTML   = "html"
	RulesetNameXML    = "xml"
	RulesetNameClient = "client"
)

// Error code constants for categorization
const (
	ErrCodeAttribute  = "COYOTE_ATTRIBUTE"
	ErrCodeUnbalanced = "COYOTE_UNBALANCED"
	ErrCodeLimit      = "COYOTE_LIMIT"
	ErrCodeConfig     = "COYOTE_CONFIG"
	ErrCodeContent    = "COYOTE_CONTENT"
	ErrCodeStorage    = "COYOTE_STORAGE"
)

// Error message constants
const (
	ErrMsgInvalidAttribute   = "invalid attribute"
	ErrMsgUnbalancedTemplate = "unbalanced template"
	ErrMsgDocumentLimit      = "document exceeded memory limit"
	ErrMsgRenderFailed       = "render failed"
	ErrMsgNilRuleset         = "ruleset is nil"
	ErrMsgUnknownRuleset     = "unknown ruleset"
	ErrMsgLoadParams         = "failed to load document params"

	ErrMsgDecodeContent      = "failed to decode content document"
	ErrMsgUnknownContentKind = "unknown content node kind"
	ErrMsgEmptyContentNode   = "content node has no kind"
	ErrMsgAmbiguousNode      = "content node has more than one kind"

	ErrMsgTemplateNotFound = "template not found"
)

// Metadata key constants
const (
	MetaKeyAttribute    = "attribute"
	MetaKeyIndex        = "index"
	MetaKeyGlyph        = "glyph"
	MetaKeyTemplate     = "template"
	MetaKeyLimit        = "limit"
	MetaKeyLength       = "length"
	MetaKeyRuleset      = "ruleset"
	MetaKeyKind         = "kind"
	MetaKeyTemplateName = "template_name"
)

// Log messages
const (
	LogMsgDocumentCreated = "document created"
	LogMsgRenderStart     = "render started"
	LogMsgRenderDone      = "render complete"
	LogMsgRenderFailed    = "render failed"
	LogMsgStoredLoaded    = "stored template loaded"
	LogMsgStoredSaved     = "stored template saved"
	LogMsgCacheHit        = "template cache hit"
	LogMsgCacheMiss       = "template cache miss"
	LogMsgCacheEvicted    = "template cache entry evicted"
)

// Log field names
const (
	LogFieldRuleset   = "ruleset"
	LogFieldOutputLen = "output_len"
	LogFieldName      = "name"
	LogFieldVersion   = "version"
	LogFieldError     = "error"
)

// Content document node keys
const (
	ContentKeyText       = "text"
	ContentKeyUnescaped  = "unescaped"
	ContentKeyAttr       = "attr"
	ContentKeyAttrVal    = "attr_val"
	ContentKeyList       = "list"
	ContentKeyTemplate   = "template"
	ContentKeyInjections = "injections"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Filesystem storage layout
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".json"
	FilesystemForbiddenChars  = "/\\:*?\"<>|"
	FilesystemParentDir       = ".."
)

// PostgreSQL storage defaults
const (
	PostgresTablePrefix            = "coyote_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
	PostgresDriverName             = "postgres"
)

// Stored template cache defaults
const (
	StorageCacheDefaultTTL         = 5 * time.Minute
	StorageCacheDefaultMaxEntries  = 1000
	StorageCacheDefaultNegativeTTL = 30 * time.Second
)

// TemplateIDPrefix is prepended to generated stored template IDs
const TemplateIDPrefix = "tmpl_"
