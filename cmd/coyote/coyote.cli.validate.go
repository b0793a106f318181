package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itsatony/go-coyote"
	"github.com/spf13/cobra"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	documentFlags
	templatePath string
	format       string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid bool   `json:"valid"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}

func newValidateCmd(state *cliState) *cobra.Command {
	cfg := &validateConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameValidate,
		Short: CmdShortValidate,
		Example: `  coyote validate -t page.html
  coyote validate -t feed.xml -r xml -F json
  cat page.html | coyote validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(state, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, InputSourceStdin, UsageTemplate)
	flags.StringVarP(&cfg.ruleset, FlagRuleset, FlagRulesetShort, FlagDefaultRuleset, UsageRuleset)
	flags.StringVar(&cfg.configPath, FlagConfig, "", UsageConfig)
	flags.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, UsageFormat)

	return cmd
}

func runValidate(state *cliState, cfg *validateConfig) error {
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(cfg.format))
	}

	doc, err := buildDocument(cfg.documentFlags, state.logger)
	if err != nil {
		return err
	}

	source, err := readInput(cfg.templatePath, state.stdin)
	if err != nil {
		return newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	result := validationOutput{Valid: true}
	if err := doc.Validate(string(source)); err != nil {
		result = validationOutput{Valid: false, Kind: issueKind(err), Error: err.Error()}
	}

	if cfg.format == OutputFormatJSON {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(state.stdout, string(data))
	} else if result.Valid {
		fmt.Fprintln(state.stdout, ValidationTextSuccess)
	} else {
		fmt.Fprintf(state.stdout, ValidationTextFailure+FmtNewline, result.Error)
	}

	if !result.Valid {
		return newExitError(ExitCodeValidationError, ErrMsgInvalidTemplate, nil)
	}
	return nil
}

// issueKind names the markup error class for machine readable output
func issueKind(err error) string {
	switch {
	case errors.Is(err, coyote.ErrInvalidAttribute):
		return IssueKindAttribute
	case errors.Is(err, coyote.ErrUnbalancedTemplate):
		return IssueKindUnbalanced
	case errors.Is(err, coyote.ErrDocumentMemoryLimit):
		return IssueKindLimit
	}
	return IssueKindOther
}
