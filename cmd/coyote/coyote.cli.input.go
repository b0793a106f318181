package main

import (
	"io"
	"os"

	"github.com/itsatony/go-coyote"
	"go.uber.org/zap"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin || path == "" {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput || path == "" {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// documentFlags are shared by every command that renders or compiles
type documentFlags struct {
	ruleset    string
	configPath string
}

// buildDocument creates a document for the selected ruleset, with params
// from the config file layered over the ruleset defaults.
func buildDocument(flags documentFlags, logger *zap.Logger) (*coyote.Document, error) {
	params, err := coyote.DefaultParams(flags.ruleset)
	if err != nil {
		return nil, newExitError(ExitCodeUsageError, ErrMsgInvalidRuleset, err)
	}

	if flags.configPath != "" {
		f, err := os.Open(flags.configPath)
		if err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgLoadConfigFailed, err)
		}
		defer f.Close()

		params, err = coyote.LoadParams(f, params)
		if err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgLoadConfigFailed, err)
		}
	}

	rules, err := coyote.RulesetByName(flags.ruleset, params)
	if err != nil {
		return nil, newExitError(ExitCodeUsageError, ErrMsgInvalidRuleset, err)
	}

	doc, err := coyote.New(rules, coyote.WithLogger(logger))
	if err != nil {
		return nil, newExitError(ExitCodeError, ErrMsgInvalidRuleset, err)
	}
	return doc, nil
}

// loadContent decodes a YAML content file. An empty path means no content.
func loadContent(path string) (coyote.Component, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newExitError(ExitCodeInputError, ErrMsgLoadContentFailed, err)
	}
	defer f.Close()

	root, err := coyote.DecodeContent(f)
	if err != nil {
		return nil, newExitError(ExitCodeInputError, ErrMsgLoadContentFailed, err)
	}
	return root, nil
}

// injectionsOf turns a content root into template injections: a list
// supplies one injection per element, anything else fills the first slot.
func injectionsOf(root coyote.Component) []coyote.Component {
	switch c := root.(type) {
	case nil:
		return nil
	case coyote.List:
		return []coyote.Component(c)
	default:
		return []coyote.Component{c}
	}
}
