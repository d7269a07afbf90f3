package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/dialecticianai/hegel-pm-sub000/internal/config"
	"github.com/dialecticianai/hegel-pm-sub000/internal/crossproject"
	"github.com/dialecticianai/hegel-pm-sub000/internal/discovery"
	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/httpapi"
	"github.com/dialecticianai/hegel-pm-sub000/internal/metrics"
	"github.com/dialecticianai/hegel-pm-sub000/internal/scheduler"
	"github.com/dialecticianai/hegel-pm-sub000/internal/workerpool"
)

// Set at build time with: -ldflags "-X main.version=1.0.0"
var version = "dev"

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"hegelpm.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd    `cmd:"" help:"Serve the discovery and metrics HTTP API"`
	RunInAll   RunInAllCmd `cmd:"" name:"run-in-projects" help:"Run an external command in every discovered project"`
	Discover   DiscoverCmd `cmd:"" help:"Scan configured roots and print discovered projects"`
	RefreshCmd RefreshCmd  `cmd:"" name:"refresh" help:"Force a fresh scan and overwrite the persistent cache"`
}

// Global carries state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ServeCmd starts the HTTP API, pre-warming the response cache and
// optionally running a periodic background refresh.
type ServeCmd struct {
	RefreshInterval time.Duration `name:"refresh-interval" help:"Periodic background cache refresh interval (0 disables)" default:"10m"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	engine := discovery.NewEngine(cfg)
	recorder := metrics.Recorder(metrics.NewPrometheusRecorder(nil))
	pool := workerpool.New(engine, recorder, 256)
	go pool.Run()
	pool.PreWarm()

	var sched *scheduler.Scheduler
	if s.RefreshInterval > 0 {
		sched, err = scheduler.New(s.RefreshInterval, func() {
			pool.Requests <- workerpool.RefreshCache{ProjectName: nil}
		})
		if err != nil {
			return err
		}
		sched.Start()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend := httpapi.NewDefaultBackend()
	errCh := make(chan error, 1)
	go func() {
		errCh <- backend.Run(pool.Requests, cfg)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	if sched != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := sched.Stop(stopCtx); err != nil {
			slog.Warn("scheduler stop error", "error", err)
		}
	}

	return nil
}

// RunInAllCmd runs an arbitrary command in every discovered project's
// directory, sequentially.
type RunInAllCmd struct {
	Command string   `arg:"" help:"External command to run in each project directory"`
	Args    []string `arg:"" optional:"" help:"Arguments passed to the command unchanged"`
}

func (r *RunInAllCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	engine := discovery.NewEngine(cfg)
	summary := crossproject.Run(context.Background(), engine, r.Command, r.Args, os.Stdout, os.Stderr)

	fmt.Printf("completed: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	if summary.Failed > 0 {
		return hgerrors.RuntimeError("one or more projects failed").
			WithContext("failed", summary.Failed).
			WithContext("succeeded", summary.Succeeded).Build()
	}
	return nil
}

// DiscoverCmd prints the currently discovered projects without starting a
// server.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	engine := discovery.NewEngine(cfg)
	projects := engine.GetProjects(false)

	fmt.Printf("discovered %d project(s)\n", len(projects))
	for _, p := range projects {
		mode := "uninitialized"
		if p.WorkflowState != nil {
			mode = p.WorkflowState.Mode
		}
		fmt.Printf("  %-30s %-15s %s\n", p.Name, mode, p.ProjectPath)
		if p.Error != "" {
			fmt.Printf("    error: %s\n", p.Error)
		}
	}
	return nil
}

// RefreshCmd forces a fresh scan, bypassing and then overwriting the
// persistent cache.
type RefreshCmd struct{}

func (rc *RefreshCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	engine := discovery.NewEngine(cfg)
	projects := engine.GetProjects(true)
	fmt.Printf("refreshed %d project(s)\n", len(projects))
	return nil
}

func main() {
	cli := &CLI{}
	parser := kong.Parse(cli,
		kong.Description("hegelpm: discover and aggregate workflow-tracking state across projects."),
		kong.Vars{"version": version},
	)

	logger := slog.Default()
	errorAdapter := hgerrors.NewCLIErrorAdapter(cli.Verbose, logger)

	globals := &Global{Logger: logger}

	if err := parser.Run(globals, cli); err != nil {
		errorAdapter.HandleError(err)
	}
}
