package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itsatony/go-coyote"
	"github.com/spf13/cobra"
)

// stepsConfig holds parsed steps command configuration
type stepsConfig struct {
	documentFlags
	templatePath string
	format       string
}

// stepOutput is one step in JSON output, with its kind by name
type stepOutput struct {
	Kind   string `json:"kind"`
	Origin int    `json:"origin"`
	Target int    `json:"target"`
	Text   string `json:"text"`
}

// stepsOutput represents JSON output for compiled steps
type stepsOutput struct {
	Chunks     [][]stepOutput `json:"chunks"`
	Injections []stepOutput   `json:"injections"`
}

func newStepsCmd(state *cliState) *cobra.Command {
	cfg := &stepsConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameSteps,
		Short: CmdShortSteps,
		Example: `  coyote steps -t page.html
  coyote steps -t feed.xml -r xml -F json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(state, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, InputSourceStdin, UsageTemplate)
	flags.StringVarP(&cfg.ruleset, FlagRuleset, FlagRulesetShort, FlagDefaultRuleset, UsageRuleset)
	flags.StringVar(&cfg.configPath, FlagConfig, "", UsageConfig)
	flags.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, UsageFormat)

	return cmd
}

func runSteps(state *cliState, cfg *stepsConfig) error {
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
	template := string(source)
	steps := doc.Steps(template)

	if cfg.format == OutputFormatJSON {
		return outputStepsJSON(state.stdout, template, steps)
	}
	outputStepsText(state.stdout, template, steps)
	return nil
}

func toStepOutput(template string, step coyote.Step) stepOutput {
	return stepOutput{
		Kind:   step.Kind.String(),
		Origin: step.Origin,
		Target: step.Target,
		Text:   step.Text(template),
	}
}

func outputStepsText(w io.Writer, template string, steps *coyote.TemplateSteps) {
	for i, chunk := range steps.Steps {
		fmt.Fprintf(w, StepsChunkHeader+FmtNewline, i)
		for _, step := range chunk {
			fmt.Fprintf(w, StepsLine+FmtNewline, step.Kind, step.Origin, step.Target, step.Text(template))
		}
		if i < len(steps.Injs) {
			inj := steps.Injs[i]
			fmt.Fprintf(w, StepsInjLine+FmtNewline, i, inj.Kind, inj.Origin)
		}
	}
}

func outputStepsJSON(w io.Writer, template string, steps *coyote.TemplateSteps) error {
	output := stepsOutput{
		Chunks:     make([][]stepOutput, len(steps.Steps)),
		Injections: make([]stepOutput, len(steps.Injs)),
	}
	for i, chunk := range steps.Steps {
		output.Chunks[i] = make([]stepOutput, len(chunk))
		for j, step := range chunk {
			output.Chunks[i][j] = toStepOutput(template, step)
		}
	}
	for i, inj := range steps.Injs {
		output.Injections[i] = toStepOutput(template, inj)
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
