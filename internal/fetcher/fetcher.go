package fetcher

import "context"

// Job is the core interface that every icon source implements.
// A job lists its records, downloads the missing icons and reports what it did.
type Job interface {
	// Run processes the whole listing once. The first error ends the run;
	// files written before it stay on disk.
	Run(ctx context.Context) (Summary, error)

	// Name identifies the source in logs and summaries.
	// Examples: chains, protocols, tokens
	Name() string
}
