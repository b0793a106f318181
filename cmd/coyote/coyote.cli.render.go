package main

import (
	"context"
	"errors"

	"github.com/itsatony/go-coyote"
	"github.com/spf13/cobra"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	documentFlags
	templatePath string
	contentPath  string
	outputPath   string
	store        string
	name         string
	watch        bool
}

func newRenderCmd(state *cliState) *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameRender,
		Short: CmdShortRender,
		Example: `  coyote render -t page.html -c content.yaml
  coyote render -c tree.yaml -r xml -o feed.xml
  cat page.html | coyote render -t -
  coyote render --store filesystem:./templates --name page -c content.yaml
  coyote render -t page.html -c content.yaml -o out.html --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.watch {
				return watchRender(cmd.Context(), state, cfg)
			}
			return runRender(cmd.Context(), state, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", UsageTemplate)
	flags.StringVarP(&cfg.contentPath, FlagContent, FlagContentShort, "", UsageContent)
	flags.StringVarP(&cfg.ruleset, FlagRuleset, FlagRulesetShort, FlagDefaultRuleset, UsageRuleset)
	flags.StringVar(&cfg.configPath, FlagConfig, "", UsageConfig)
	flags.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, UsageOutput)
	flags.StringVar(&cfg.store, FlagStore, "", UsageStore)
	flags.StringVar(&cfg.name, FlagName, "", UsageName)
	flags.BoolVar(&cfg.watch, FlagWatch, false, UsageWatch)

	return cmd
}

func (cfg *renderConfig) validate() error {
	if cfg.name != "" && cfg.store == "" {
		return newExitError(ExitCodeUsageError, ErrMsgNameWithoutStore, nil)
	}
	if cfg.store != "" && cfg.name == "" {
		return newExitError(ExitCodeUsageError, ErrMsgStoreWithoutName, nil)
	}
	if cfg.watch && cfg.store == "" && cfg.usesStdin() {
		return newExitError(ExitCodeUsageError, ErrMsgWatchStdin, nil)
	}
	return nil
}

// usesStdin reports whether the template is read from stdin
func (cfg *renderConfig) usesStdin() bool {
	if cfg.store != "" {
		return false
	}
	if cfg.templatePath == "" {
		return cfg.contentPath == ""
	}
	return cfg.templatePath == InputSourceStdin
}

// watchedPaths lists the input files a render depends on
func (cfg *renderConfig) watchedPaths() []string {
	var paths []string
	for _, p := range []string{cfg.templatePath, cfg.contentPath, cfg.configPath} {
		if p != "" && p != InputSourceStdin {
			paths = append(paths, p)
		}
	}
	return paths
}

func runRender(ctx context.Context, state *cliState, cfg *renderConfig) error {
	doc, err := buildDocument(cfg.documentFlags, state.logger)
	if err != nil {
		return err
	}

	content, err := loadContent(cfg.contentPath)
	if err != nil {
		return err
	}

	out, err := renderOnce(ctx, state, cfg, doc, content)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.outputPath, []byte(out), state.stdout); err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// renderOnce picks the template source: a stored template, a template
// file with the content as injections, or the content tree on its own.
func renderOnce(ctx context.Context, state *cliState, cfg *renderConfig, doc *coyote.Document, content coyote.Component) (string, error) {
	var (
		out string
		err error
	)

	switch {
	case cfg.store != "":
		out, err = renderStored(ctx, cfg, doc, content)
	case cfg.templatePath == "" && cfg.contentPath != "":
		out, err = doc.Render(content)
	default:
		source, readErr := readInput(cfg.templatePath, state.stdin)
		if readErr != nil {
			msg := ErrMsgReadFileFailed
			if cfg.usesStdin() {
				msg = ErrMsgReadStdinFailed
			}
			return "", newExitError(ExitCodeInputError, msg, readErr)
		}
		out, err = doc.RenderTemplate(string(source), injectionsOf(content)...)
	}

	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return "", err
		}
		return "", newExitError(renderExitCode(err), ErrMsgRenderFailed, err)
	}
	return out, nil
}

func renderStored(ctx context.Context, cfg *renderConfig, doc *coyote.Document, content coyote.Component) (string, error) {
	driver, connection := coyote.ParseStorageSpec(cfg.store)
	storage, err := coyote.OpenStorage(driver, connection)
	if err != nil {
		return "", newExitError(ExitCodeInputError, ErrMsgOpenStoreFailed, err)
	}
	defer storage.Close()

	out, err := doc.RenderStored(ctx, storage, cfg.name, injectionsOf(content)...)
	if err != nil {
		var composeErr *coyote.ComposeError
		if !errors.As(err, &composeErr) {
			return "", newExitError(ExitCodeInputError, ErrMsgLoadStoredFailed, err)
		}
		return "", err
	}
	return out, nil
}

// renderExitCode maps markup errors to the validation exit code
func renderExitCode(err error) int {
	var composeErr *coyote.ComposeError
	if errors.As(err, &composeErr) {
		return ExitCodeValidationError
	}
	return ExitCodeError
}
