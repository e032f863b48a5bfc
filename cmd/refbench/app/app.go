// Package app implements the refbench command: a timing harness
// comparing raw pointers, refkit references and sync.Pool recycling over
// configurable workloads.
package app

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// NewRefBenchCommand creates the refbench root command.
func NewRefBenchCommand() *cobra.Command {
	options := NewOptions()

	cmd := &cobra.Command{
		Use:   "refbench",
		Short: "Benchmark refkit references against raw pointers and pooling",

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Complete(); err != nil {
				return err
			}
			return options.run()
		},
	}

	options.AddFlags(cmd.Flags())

	return cmd
}

type options struct {
	configPath string
	iterations int
	verbosity  int

	Log    logr.Logger
	Config *Config
}

func NewOptions() *options {
	return &options{}
}

func (o *options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "path to a refbench.yaml workload config")
	fs.IntVarP(&o.iterations, "iterations", "n", 0, "override the configured iteration count")
	fs.IntVarP(&o.verbosity, "verbosity", "v", 0, "log verbosity")
}

// Complete loads the configuration and builds the logger.
func (o *options) Complete() error {
	cfg, err := LoadOptional(o.configPath)
	if err != nil {
		return err
	}
	if o.iterations > 0 {
		cfg.Iterations = o.iterations
	}
	o.Config = cfg

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if o.verbosity > 0 {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapLog, err := zapCfg.Build()
	if err != nil {
		return err
	}
	o.Log = zapr.NewLogger(zapLog)

	return nil
}

func (o *options) run() error {
	runID := uuid.New()
	o.Log.Info("starting benchmark run",
		"run", runID.String(),
		"iterations", o.Config.Iterations,
		"workloads", o.Config.Workloads)

	results, err := RunWorkloads(o.Log, o.Config)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "run %s\n", runID)
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-12s %12d iters %12.1f ns/op\n", r.Name, r.Iterations, r.NsPerOp)
	}

	return nil
}
