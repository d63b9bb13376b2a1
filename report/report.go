// Package report reduces per-run timing samples into comparison
// statistics and renders them as a console table or a JSON results
// file.
//
// The JSON schema is consumed by external chart tooling and is kept
// stable: run_count, started_at, then one object per benchmark with
// per-side runs ({elapsed_s, ok, error}), mean_s/min_s/max_s over the
// successful samples, a failure count, and the speedup ratio
// (Ansible mean / FTL2 mean).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ftlbench/runner"
)

// SideStats summarizes one side's ordered run results. Mean, Min and
// Max cover successful samples only and are nil when every attempt
// failed; the failure count is retained for diagnostics.
type SideStats struct {
	Runs     []runner.RunResult `json:"runs"`
	Mean     *float64           `json:"mean_s,omitempty"`
	Min      *float64           `json:"min_s,omitempty"`
	Max      *float64           `json:"max_s,omitempty"`
	Failures int                `json:"failures"`
}

// Outcome holds both sides' results for one benchmark plus derived
// statistics. Speedup is Ansible mean over FTL2 mean, and nil unless
// both sides produced at least one successful sample.
type Outcome struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Ansible     SideStats `json:"ansible"`
	FTL2        SideStats `json:"ftl2"`
	Speedup     *float64  `json:"speedup,omitempty"`
}

// ResultSet is the full output of one harness run: metadata plus one
// Outcome per benchmark, in run order. This is the only artifact the
// harness persists.
type ResultSet struct {
	RunCount   int       `json:"run_count"`
	StartedAt  time.Time `json:"started_at"`
	Benchmarks []Outcome `json:"benchmarks"`
}

// NewSideStats reduces one side's run results into summary statistics.
func NewSideStats(runs []runner.RunResult) SideStats {
	stats := SideStats{Runs: runs}

	var sum float64
	var count int

	for _, r := range runs {
		if !r.OK {
			stats.Failures++

			continue
		}

		sum += r.Elapsed
		count++

		if stats.Min == nil || r.Elapsed < *stats.Min {
			v := r.Elapsed
			stats.Min = &v
		}

		if stats.Max == nil || r.Elapsed > *stats.Max {
			v := r.Elapsed
			stats.Max = &v
		}
	}

	if count > 0 {
		mean := sum / float64(count)
		stats.Mean = &mean
	}

	return stats
}

// NewOutcome aggregates both sides' run results for one benchmark.
func NewOutcome(
	name, description string,
	ansible, ftl2 []runner.RunResult,
) Outcome {
	outcome := Outcome{
		Name:        name,
		Description: description,
		Ansible:     NewSideStats(ansible),
		FTL2:        NewSideStats(ftl2),
	}

	if outcome.Ansible.Mean != nil && outcome.FTL2.Mean != nil {
		speedup := *outcome.Ansible.Mean / *outcome.FTL2.Mean
		outcome.Speedup = &speedup
	}

	return outcome
}

// RenderTable writes a fixed-width comparison table to w, one row per
// benchmark in result-set order. Benchmarks with unavailable
// statistics keep their row and render N/A in the affected cells.
func RenderTable(w io.Writer, rs ResultSet) {
	nameWidth := len("BENCHMARK")
	for _, o := range rs.Benchmarks {
		if len(o.Name) > nameWidth {
			nameWidth = len(o.Name)
		}
	}

	const colWidth = 10

	fmt.Fprintf(w, "%-*s  %*s  %*s  %*s\n",
		nameWidth, "BENCHMARK",
		colWidth, "ANSIBLE",
		colWidth, "FTL2",
		colWidth, "SPEEDUP",
	)
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", nameWidth),
		strings.Repeat("-", colWidth),
		strings.Repeat("-", colWidth),
		strings.Repeat("-", colWidth),
	)

	for _, o := range rs.Benchmarks {
		fmt.Fprintf(w, "%-*s  %*s  %*s  %*s\n",
			nameWidth, o.Name,
			colWidth, formatSeconds(o.Ansible.Mean),
			colWidth, formatSeconds(o.FTL2.Mean),
			colWidth, formatSpeedup(o.Speedup),
		)
	}
}

// WriteJSON serializes the full result set to path as indented JSON,
// overwriting any existing file.
func WriteJSON(path string, rs ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(rs); err != nil {
		f.Close()

		return fmt.Errorf("encode results: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

func formatSeconds(v *float64) string {
	if v == nil {
		return "N/A"
	}

	return fmt.Sprintf("%.3fs", *v)
}

func formatSpeedup(v *float64) string {
	if v == nil {
		return "N/A"
	}

	return fmt.Sprintf("%.2fx", *v)
}
