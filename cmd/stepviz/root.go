package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/algorithms/catalog"
	"github.com/wilhg/stepviz/pkg/algorithms/script"
	"github.com/wilhg/stepviz/pkg/config"
	"github.com/wilhg/stepviz/pkg/logging"
	"github.com/wilhg/stepviz/pkg/otel"
	"github.com/wilhg/stepviz/pkg/player"
	"github.com/wilhg/stepviz/pkg/trace"
)

// app is the state shared by every subcommand, built once the flags are parsed.
type app struct {
	configFile string
	logFile    string
	debug      bool

	cfg      config.Config
	logger   *log.Logger
	registry *algorithm.Registry
	mat      *trace.Materializer
	closers  []func(context.Context) error
}

// newRootCmd builds the command tree. Callers run it through app.execute so that whatever
// setup opened is released even when the command fails.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "stepviz",
		Short: "Step through algorithms one event at a time",
		Long: `stepviz runs an algorithm on a small input, records every comparison, swap and
annotation it makes, and lets you play the recording back forwards and backwards.

Settings come from an optional YAML file (--config) and STEPVIZ_* environment
variables. Lua scripts in the configured scripts directory are registered next to
the built-in algorithms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newListCmd(a),
		newDescribeCmd(a),
		newRunCmd(a),
		newPlayCmd(a),
		newReplayCmd(a),
		newEvalCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// execute runs root and then the closers registered by setup, whether or not the command
// succeeded. Closers get a context that outlives an interrupt so buffered spans still flush.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close(context.WithoutCancel(ctx)))
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	if cfg.LogFile != "" {
		l, closeFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return err
		}
		a.logger = l
		a.closers = append(a.closers, func(context.Context) error { return closeFile() })
	} else if a.logger, err = logging.New(os.Stderr, cfg.LogLevel); err != nil {
		return err
	}

	if cfg.Tracing {
		shutdown, err := otel.Init(ctx, otel.Config{ServiceVersion: version, Exporter: os.Stderr})
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		a.closers = append(a.closers, shutdown)
	}

	var scripts []algorithm.Descriptor
	if cfg.ScriptsDir != "" {
		if scripts, err = script.LoadDir(cfg.ScriptsDir, script.WithMaxEvents(cfg.MaxScriptEvents)); err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
		a.logger.Debug("scripts loaded", "dir", cfg.ScriptsDir, "count", len(scripts))
	}
	if a.registry, err = catalog.Default(scripts...); err != nil {
		return err
	}
	a.mat = trace.NewMaterializer(trace.WithMaxEvents(cfg.MaxEvents), trace.WithLogger(a.logger))
	return nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) newPlayer() *player.Player {
	return player.New(a.registry, a.mat,
		player.WithBaseInterval(a.cfg.BaseInterval),
		player.WithSpeed(a.cfg.Speed),
		player.WithLogger(a.logger),
	)
}

func (a *app) lookup(id string) (algorithm.Descriptor, error) {
	d, ok := a.registry.Lookup(id)
	if !ok {
		return algorithm.Descriptor{}, fmt.Errorf("unknown algorithm %q (see stepviz list)", id)
	}
	return d, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stepviz %s (commit=%s, date=%s)\n", version, commit, date)
		},
	}
}
