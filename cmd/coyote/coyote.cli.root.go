package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliState is shared by every command of one invocation
type cliState struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	logger  *zap.Logger
}

// exitError carries the exit code a command failed with
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func newExitError(code int, msg string, err error) error {
	return &exitError{code: code, msg: msg, err: err}
}

func fmtError(w io.Writer, msg string, err error) {
	fmt.Fprintf(w, FmtErrorWithCause, msg, err)
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	state := &cliState{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:   CLIName,
		Short: CLIShort,
		Long:  CLILong,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !state.verbose {
				return nil
			}
			state.logger = newVerboseLogger(stderr)
			state.logger.Debug(LogMsgCommandStarted, zap.String(LogFieldCommand, cmd.Name()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = state.logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&state.verbose, FlagVerbose, FlagVerboseShort, false, UsageVerbose)

	root.AddCommand(newRenderCmd(state))
	root.AddCommand(newValidateCmd(state))
	root.AddCommand(newStepsCmd(state))
	root.AddCommand(newVersionCmd(state))

	return root
}

// newVerboseLogger builds a development console logger writing to w
func newVerboseLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core, zap.Development())
}
