package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/config"
	"github.com/pdrpinto/gridastar/internal/logging"
	"github.com/pdrpinto/gridastar/internal/render"
	"github.com/pdrpinto/gridastar/internal/server"
	"github.com/pdrpinto/gridastar/scenario"
)

// cli carries the persistent flags and the state derived from them.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string

	config config.Config
	logger *slog.Logger
}

func newRootCmd(outW io.Writer) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "gridastar",
		Short:         "A* path search on 2D grids",
		Long:          "gridastar searches grid maps with A*, animates the search step by step and serves it for browser visualisation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	root.SetOut(outW)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&c.logFormat, "log-format", "", "text or json")

	root.AddCommand(
		newSolveCmd(c),
		newStepCmd(c),
		newBatchCmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	c.config = cfg
	c.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	slog.SetDefault(c.logger)
	return nil
}

// searchFlags are shared by solve and step.
type searchFlags struct {
	scenario     string
	size         int
	heuristic    string
	weighted     bool
	connectivity string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.scenario, "scenario", "s", "", "map to search: "+strings.Join(scenario.Names(), ", "))
	flags.IntVar(&f.size, "size", 0, "side length for the empty and random maps")
	flags.StringVar(&f.heuristic, "heuristic", "", "diagonal or euclidean")
	flags.BoolVarP(&f.weighted, "weighted", "w", false, "dynamically weight the heuristic")
	flags.StringVar(&f.connectivity, "connectivity", "", "diagonal (8-way) or orthogonal (4-way)")
}

// apply overrides cfg with every flag set on the command line.
func (f *searchFlags) apply(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("scenario") {
		cfg.Grid.Scenario = f.scenario
	}
	if flags.Changed("size") {
		cfg.Grid.Size = f.size
	}
	if flags.Changed("heuristic") {
		cfg.Search.Heuristic = f.heuristic
	}
	if flags.Changed("weighted") {
		cfg.Search.Weighted = f.weighted
	}
	if flags.Changed("connectivity") {
		cfg.Search.Connectivity = f.connectivity
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newSolveCmd(c *cli) *cobra.Command {
	var flags searchFlags
	var labels bool

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search a map and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, c.config)
			if err != nil {
				return err
			}
			grid, options, err := prepare(cfg, c.logger)
			if err != nil {
				return err
			}

			result, err := gridastar.FindPath(cmd.Context(), grid, options...)
			if err != nil && result.Status != gridastar.StatusExhausted {
				return err
			}

			out := render.New(cmd.OutOrStdout())
			if err := out.Draw(grid, result); err != nil {
				return err
			}
			if labels {
				return out.Print(out.Labels(grid))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&labels, "labels", false, "list f, g and h of every touched cell")
	return cmd
}

func newStepCmd(c *cli) *cobra.Command {
	var flags searchFlags
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Animate the search one iteration per tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, c.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				if interval <= 0 {
					return fmt.Errorf("invalid flags: interval must be positive, got %s", interval)
				}
				cfg.Search.StepInterval = interval
			}
			grid, options, err := prepare(cfg, c.logger)
			if err != nil {
				return err
			}

			stepper, err := gridastar.NewStepper(grid, options...)
			if err != nil {
				return err
			}

			out := render.New(cmd.OutOrStdout())
			ticker := time.NewTicker(cfg.Search.StepInterval)
			defer ticker.Stop()

			for !stepper.Status().Terminal() {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
				}
				snapshot, err := stepper.Step()
				if err != nil {
					return err
				}
				frame := fmt.Sprintf("step %d  open %d  closed %d\n%s\n",
					snapshot.StepIndex, len(snapshot.Open), len(snapshot.Closed), out.Grid(grid))
				if err := out.Print(frame); err != nil {
					return err
				}
			}
			return out.Print(out.Summary(stepper.Result()) + "\n")
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", 0, "delay between steps (default from config)")
	return cmd
}

func newBatchCmd(c *cli) *cobra.Command {
	var names []string
	var size int
	var workers int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Search every map with every heuristic and weighting concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				c.config.Search.Workers = workers
			}
			if cmd.Flags().Changed("size") {
				c.config.Grid.Size = size
			}
			if err := c.config.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			jobs, err := batchJobs(names, c.config.Grid.Size)
			if err != nil {
				return err
			}
			options := []gridastar.Option{gridastar.WithLogger(c.logger)}
			if c.config.Search.Workers > 0 {
				options = append(options, gridastar.WithWorkers(c.config.Search.Workers))
			}

			results, err := gridastar.SearchAll(cmd.Context(), jobs, options...)
			if err != nil {
				return err
			}
			out := render.New(cmd.OutOrStdout())
			return out.Print(out.Table(results))
		},
	}
	cmd.Flags().StringSliceVar(&names, "scenarios", []string{"normal", "wiki", "empty"}, "maps to search")
	cmd.Flags().IntVar(&size, "size", 0, "side length for the empty and random maps")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent searches (default one per CPU)")
	return cmd
}

// batchJobs crosses scenarios with both heuristics and both weightings. Every
// job gets its own grid.
func batchJobs(names []string, size int) ([]gridastar.Job, error) {
	var jobs []gridastar.Job
	for _, name := range names {
		for _, heuristic := range []gridastar.Heuristic{gridastar.Diagonal, gridastar.Euclidean} {
			for _, weighted := range []bool{false, true} {
				grid, err := scenario.ByName(name, size)
				if err != nil {
					return nil, err
				}
				jobName := name + "/" + heuristic.String()
				if weighted {
					jobName += "/weighted"
				}
				jobs = append(jobs, gridastar.Job{
					Name:    jobName,
					Grid:    grid,
					Options: []gridastar.Option{gridastar.WithHeuristic(heuristic), gridastar.WithWeighted(weighted)},
				})
			}
		}
	}
	return jobs, nil
}

func newServeCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualisation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.config.Server.Addr = addr
				if err := c.config.Validate(); err != nil {
					return fmt.Errorf("invalid flags: %w", err)
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(c.config, c.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// prepare builds the configured grid and search options.
func prepare(cfg config.Config, logger *slog.Logger) (*gridastar.Grid, []gridastar.Option, error) {
	grid, err := scenario.ByName(cfg.Grid.Scenario, cfg.Grid.Size)
	if err != nil {
		return nil, nil, err
	}
	options, err := cfg.SearchOptions()
	if err != nil {
		return nil, nil, err
	}
	return grid, append(options, gridastar.WithLogger(logger)), nil
}
