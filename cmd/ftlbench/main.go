// Package main provides the CLI entry point for ftlbench, a harness
// comparing FTL2 against Ansible on equivalent automation tasks.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ftlbench/env"
	"ftlbench/registry"
	"ftlbench/report"
	"ftlbench/runner"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// A termination signal must reach any running child before the
	// harness exits; CommandContext handles the kill.
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	root := newRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var (
		list     bool
		setup    bool
		runs     int
		jsonPath string
		timeout  time.Duration
		benchDir string
		venvRoot string
		ftl2Repo string
	)

	cmd := &cobra.Command{
		Use:   "ftlbench [benchmark]",
		Short: "Benchmark FTL2 against Ansible on equivalent tasks",
		Long: `Ftlbench runs equivalent automation tasks under Ansible and FTL2 and
compares wall-clock timings across repeated runs.

Each side executes in its own virtual environment because FTL2
modifies the Ansible package at import time; the two cannot coexist
in one runtime. Every timed run is a fresh child process.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := env.Env{Root: venvRoot}

			if setup {
				return env.Setup(cmd.Context(), logger, e, ftl2Repo)
			}

			if list {
				return listBenchmarks(cmd.OutOrStdout(), logger, benchDir)
			}

			if runs < 1 {
				return fmt.Errorf(
					"--runs must be a positive integer, got %d", runs,
				)
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}

			return runBenchmarks(cmd.Context(), logger, runOptions{
				name:     name,
				runs:     runs,
				jsonPath: jsonPath,
				timeout:  timeout,
				benchDir: benchDir,
				env:      e,
				out:      cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&list, "list", false,
		"List available benchmarks and exit")
	flags.BoolVar(&setup, "setup", false,
		"Create both venvs and install dependencies")
	flags.IntVar(&runs, "runs", 3,
		"Number of runs per benchmark side")
	flags.StringVar(&jsonPath, "json", "",
		"Write full results as JSON to this path")
	flags.DurationVar(&timeout, "timeout", 0,
		"Per-run timeout (0 = none)")
	flags.StringVar(&benchDir, "benchmarks-dir", "benchmarks",
		"Directory containing benchmark definitions")
	flags.StringVar(&venvRoot, "venv-root", ".",
		"Directory containing the two virtual environments")
	flags.StringVar(&ftl2Repo, "ftl2-repo", "",
		"FTL2 source checkout for --setup (default: $FTL2_REPO)")

	return cmd
}

type runOptions struct {
	name     string
	runs     int
	jsonPath string
	timeout  time.Duration
	benchDir string
	env      env.Env
	out      io.Writer
}

func runBenchmarks(
	ctx context.Context,
	logger *slog.Logger,
	opts runOptions,
) error {
	var (
		defs []registry.BenchmarkDefinition
		err  error
	)

	if opts.name != "" {
		var def registry.BenchmarkDefinition

		def, err = registry.Resolve(opts.benchDir, opts.name, logger)
		if err != nil {
			return err
		}

		defs = []registry.BenchmarkDefinition{def}
	} else {
		defs, err = registry.Discover(opts.benchDir, logger)
		if err != nil {
			return err
		}

		if len(defs) == 0 {
			return fmt.Errorf(
				"no benchmarks found under %s", opts.benchDir,
			)
		}
	}

	if err := checkProvisioned(opts.env); err != nil {
		return err
	}

	started := time.Now()
	outcomes := make([]report.Outcome, 0, len(defs))

	for _, def := range defs {
		logger.InfoContext(ctx, "benchmark starting",
			slog.String("benchmark", def.Name),
			slog.String("description", def.Description),
			slog.Int("runs", opts.runs),
		)

		// Strictly sequential: all Ansible runs complete before any
		// FTL2 run starts, and runs never overlap. Overlap would
		// contend for the machine and corrupt the comparison.
		ansible := runner.Collect(ctx, logger, "ansible",
			opts.env.AnsibleArgv(def.Playbook, def.Inventory),
			opts.runs, opts.timeout,
		)
		ftl2 := runner.Collect(ctx, logger, "ftl2",
			opts.env.FTL2Argv(def.FTL2Script),
			opts.runs, opts.timeout,
		)

		outcomes = append(outcomes,
			report.NewOutcome(def.Name, def.Description, ansible, ftl2),
		)
	}

	rs := report.ResultSet{
		RunCount:   opts.runs,
		StartedAt:  started,
		Benchmarks: outcomes,
	}

	// The table prints for every attempted benchmark, failures
	// included; partial failure is reported, not fatal.
	report.RenderTable(opts.out, rs)

	if opts.jsonPath != "" {
		if err := report.WriteJSON(opts.jsonPath, rs); err != nil {
			return fmt.Errorf("write results: %w", err)
		}

		logger.InfoContext(ctx, "results written",
			slog.String("path", opts.jsonPath),
		)
	}

	return nil
}

func checkProvisioned(e env.Env) error {
	ansibleOK, ftl2OK := e.Check()
	if ansibleOK && ftl2OK {
		return nil
	}

	var missing []string
	if !ansibleOK {
		missing = append(missing, "Ansible")
	}

	if !ftl2OK {
		missing = append(missing, "FTL2")
	}

	return fmt.Errorf("missing venv(s): %s (run ftlbench --setup): %w",
		strings.Join(missing, ", "), runner.ErrNotProvisioned,
	)
}

func listBenchmarks(w io.Writer, logger *slog.Logger, benchDir string) error {
	defs, err := registry.Discover(benchDir, logger)
	if err != nil {
		return err
	}

	if len(defs) == 0 {
		fmt.Fprintf(w, "No benchmarks found under %s\n", benchDir)

		return nil
	}

	nameWidth := 0
	for _, def := range defs {
		if len(def.Name) > nameWidth {
			nameWidth = len(def.Name)
		}
	}

	fmt.Fprintln(w, "Available benchmarks:")

	for _, def := range defs {
		fmt.Fprintf(w, "  %-*s  %s\n", nameWidth, def.Name, def.Description)
	}

	return nil
}
