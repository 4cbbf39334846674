// Package cli implements the goref command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	verbose bool
	log     logr.Logger
	sync    func() error
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{log: logr.Discard()}
	cmd := &cobra.Command{
		Use:   "goref",
		Short: "Describe arbitrary values in a human readable form",
		Long: `goref inspects values and prints a navigable description of their shape and content,
including nested containers and reference cycles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.sync != nil {
				_ = opts.sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log skipped members and other details")

	cmd.AddCommand(newDumpCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) setupLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	if o.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapLogger, err := config.Build()
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	o.log = zapr.NewLogger(zapLogger)
	o.sync = zapLogger.Sync
	return nil
}
