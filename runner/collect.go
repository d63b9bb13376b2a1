package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Collect invokes argv exactly runCount times and returns one
// RunResult per attempt, in order. Runs are strictly sequential:
// concurrent runs would contend for the same machine resources and
// corrupt the timing comparison.
//
// A failed attempt is recorded and the remaining attempts still run;
// the batch never aborts. No cooldown is imposed between runs —
// benchmarks are expected to clean up after themselves.
func Collect(
	ctx context.Context,
	logger *slog.Logger,
	side string,
	argv []string,
	runCount int,
	timeout time.Duration,
) []RunResult {
	log := logger.With(slog.String("side", side))

	results := make([]RunResult, 0, runCount)

	for i := 0; i < runCount; i++ {
		elapsed, err := Invoke(ctx, argv, timeout)
		if err != nil {
			log.Warn("run failed",
				slog.String("run", fmt.Sprintf("%d/%d", i+1, runCount)),
				slog.String("error", err.Error()),
			)

			results = append(results, RunResult{
				Elapsed: elapsed,
				OK:      false,
				Error:   err.Error(),
			})

			continue
		}

		log.Info("run complete",
			slog.String("run", fmt.Sprintf("%d/%d", i+1, runCount)),
			slog.String("elapsed", fmt.Sprintf("%.3fs", elapsed)),
		)

		results = append(results, RunResult{Elapsed: elapsed, OK: true})
	}

	return results
}
