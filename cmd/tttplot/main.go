package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dati-mipt/tttplot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tttplot",
		Short: "Time-to-target plots for ant colony experiments",
		Long: `tttplot runs tttplots.pl on the recorded durations of each experiment
condition and plots the empirical runtime distributions it estimates.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().String("config", "", "YAML experiment configuration")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace")
	rootCmd.PersistentFlags().Bool("no-show", false, "Do not open a gnuplot window")

	rootCmd.AddCommand(
		newSingleCmd(),
		newOverlayCmd(),
		newReplotCmd(),
		newRunsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// env is what every command needs: the configuration, a logger and a runner.
type env struct {
	cfg    *tttplot.Config
	log    *logrus.Logger
	runner *tttplot.Runner
}

func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := tttplot.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if noShow, _ := cmd.Flags().GetBool("no-show"); noShow {
		cfg.Plot.Show = false
	}

	log := tttplot.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	runner := tttplot.NewRunner(cfg, log)
	if tool, ok := runner.Tool.(*tttplot.TTTPlots); ok {
		tool.Stdout = cmd.ErrOrStderr()
	}
	return &env{cfg: cfg, log: log, runner: runner}, nil
}

// openArchive attaches the configured archive to the runner. It returns a
// close function that is safe to call when no archive is configured.
func (e *env) openArchive(ctx context.Context) (func(), error) {
	if e.cfg.Archive.Driver == "" {
		return func() {}, nil
	}
	a, err := tttplot.OpenArchive(e.cfg.Archive.Driver, e.cfg.Archive.DSN)
	if err != nil {
		return nil, err
	}
	if err := a.Migrate(ctx); err != nil {
		a.Close()
		return nil, err
	}
	e.runner.Archive = a
	e.log.WithFields(logrus.Fields{"driver": e.cfg.Archive.Driver, "dsn": a.Source(), "run": e.runner.RunID}).Info("opened archive")
	return func() {
		if err := a.Close(); err != nil {
			e.log.WithError(err).Warn("cannot close archive")
		}
	}, nil
}

func newSingleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Plot one TTT curve per condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			conds := e.cfg.Single
			if cmd.Flags().Changed("instance") {
				instance, _ := cmd.Flags().GetInt("instance")
				parallel, _ := cmd.Flags().GetBool("parallel")
				conds = []tttplot.Condition{tttplot.ParallelCondition(instance, parallel)}
			}

			ctx := cmd.Context()
			closeArchive, err := e.openArchive(ctx)
			if err != nil {
				return err
			}
			defer closeArchive()

			for _, c := range conds {
				out, err := e.runner.RunSingle(ctx, c)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
	cmd.Flags().Int("instance", 1, "Instance number")
	cmd.Flags().Bool("parallel", false, "Use the parallel run durations")
	return cmd
}

// selectOverlays keeps the overlays of one instance when the flag was given.
func selectOverlays(cmd *cobra.Command, overlays []tttplot.Overlay) ([]tttplot.Overlay, error) {
	if !cmd.Flags().Changed("instance") {
		return overlays, nil
	}
	instance, _ := cmd.Flags().GetInt("instance")
	var selected []tttplot.Overlay
	for _, o := range overlays {
		if o.Instance == instance {
			selected = append(selected, o)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no overlay configured for instance %d", instance)
	}
	return selected, nil
}

func newOverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Plot all conditions of an instance on one figure",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			overlays, err := selectOverlays(cmd, e.cfg.Overlays)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			closeArchive, err := e.openArchive(ctx)
			if err != nil {
				return err
			}
			defer closeArchive()

			for _, o := range overlays {
				out, err := e.runner.RunOverlay(ctx, o)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
	cmd.Flags().Int("instance", 0, "Only plot the overlay of this instance")
	return cmd
}

func newReplotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replot",
		Short: "Rebuild overlays from an archived run without running the tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if e.cfg.Archive.Driver == "" {
				return fmt.Errorf("replot needs an archive driver in the configuration")
			}
			run, _ := cmd.Flags().GetString("run")
			overlays, err := selectOverlays(cmd, e.cfg.Overlays)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			closeArchive, err := e.openArchive(ctx)
			if err != nil {
				return err
			}
			defer closeArchive()

			for _, o := range overlays {
				out, err := e.runner.Replot(ctx, o, run)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
	cmd.Flags().String("run", "", "Archived run id")
	cmd.Flags().Int("instance", 0, "Only replot the overlay of this instance")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List archived run ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if e.cfg.Archive.Driver == "" {
				return fmt.Errorf("no archive configured")
			}
			ctx := cmd.Context()
			closeArchive, err := e.openArchive(ctx)
			if err != nil {
				return err
			}
			defer closeArchive()

			runs, err := e.runner.Archive.Runs(ctx)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tttplot version %s\n", version)
		},
	}
}
