package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"iconfetcher/internal/fetcher"
)

// Coordinator runs icon jobs one after another
type Coordinator struct {
	jobs []fetcher.Job
	out  io.Writer
}

// New creates a new Coordinator with the given jobs; summaries are printed to out
func New(jobs []fetcher.Job, out io.Writer) *Coordinator {
	return &Coordinator{
		jobs: jobs,
		out:  out,
	}
}

// Run executes the jobs sequentially in the order given and stops at the first
// failure. A summary line is printed after each successful job:
//   - "SOURCE: N downloaded, M skipped of K records"
func (c *Coordinator) Run(ctx context.Context) ([]fetcher.Summary, error) {
	if len(c.jobs) == 0 {
		return nil, fmt.Errorf("no jobs configured")
	}

	summaries := make([]fetcher.Summary, 0, len(c.jobs))
	for _, job := range c.jobs {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		fmt.Fprintf(c.out, "== %s ==\n", job.Name())
		slog.Debug("starting job", "source", job.Name())

		summary, err := job.Run(ctx)
		if err != nil {
			return summaries, fmt.Errorf("%s: %w", job.Name(), err)
		}

		fmt.Fprintln(c.out, summary.String())
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
