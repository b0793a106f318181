package main

import "time"

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameSteps    = "steps"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagContent  = "content"
	FlagRuleset  = "ruleset"
	FlagConfig   = "config"
	FlagOutput   = "output"
	FlagStore    = "store"
	FlagName     = "name"
	FlagWatch    = "watch"
	FlagFormat   = "format"
	FlagVerbose  = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagContentShort  = "c"
	FlagRulesetShort  = "r"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput  = "-" // stdout
	FlagDefaultFormat  = "text"
	FlagDefaultRuleset = "html"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgReadStdinFailed   = "failed to read from stdin"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgRenderFailed      = "render failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidRuleset    = "invalid ruleset"
	ErrMsgLoadConfigFailed  = "failed to load config"
	ErrMsgLoadContentFailed = "failed to load content"
	ErrMsgNameWithoutStore  = "--name requires --store"
	ErrMsgStoreWithoutName  = "--store requires --name"
	ErrMsgOpenStoreFailed   = "failed to open template store"
	ErrMsgLoadStoredFailed  = "failed to load stored template"
	ErrMsgWatchFailed       = "watch failed"
	ErrMsgWatchStdin        = "--watch needs file inputs, not stdin"
	ErrMsgInvalidTemplate   = "template is invalid"
)

// CLI metadata
const (
	CLIName  = "coyote"
	CLIShort = "Render markup templates"
	CLILong  = `coyote renders HTML and XML templates with {} injection slots.

Templates are compiled into steps once and cached. Content is a YAML tree
of text, attribute and nested template nodes.`
)

// Command descriptions
const (
	CmdShortRender   = "Render a template with content"
	CmdShortValidate = "Check a template for markup errors"
	CmdShortSteps    = "Print the compiled steps of a template"
	CmdShortVersion  = "Show version information"
)

// Flag usage strings
const (
	UsageTemplate = `template file (use "-" for stdin)`
	UsageContent  = "YAML content file with the injections or a full content tree"
	UsageRuleset  = "ruleset: html, client or xml"
	UsageConfig   = "YAML document params file"
	UsageOutput   = "output file (default: stdout)"
	UsageStore    = `template store as driver:connection, e.g. "filesystem:./templates"`
	UsageName     = "stored template name"
	UsageWatch    = "re-render when an input file changes"
	UsageFormat   = "output format"
	UsageVerbose  = "log debug output to stderr"
)

// Version output
const (
	VersionTextTemplate = "coyote version %s\nCommit: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// Validation output
const (
	ValidationTextSuccess = "Template is valid"
	ValidationTextFailure = "Template is invalid: %s"
)

// Validation error kinds
const (
	IssueKindAttribute  = "invalid_attribute"
	IssueKindUnbalanced = "unbalanced_template"
	IssueKindLimit      = "memory_limit"
	IssueKindOther      = "error"
)

// Steps output
const (
	StepsChunkHeader = "chunk %d:"
	StepsLine        = "  %-24s %5d:%-5d %q"
	StepsInjLine     = "  inj %d: %s at %d"
)

// Watching and logging
const (
	WatchDebounce        = 100 * time.Millisecond
	LogMsgWatching       = "watching for changes"
	LogMsgRerender       = "input changed, rendering"
	LogMsgWatchErr       = "watcher error"
	LogMsgCommandStarted = "command started"
	LogFieldPath         = "path"
	LogFieldCommand      = "command"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v\n"
	FmtNewline        = "\n"
)
