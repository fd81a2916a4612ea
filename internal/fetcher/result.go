package fetcher

import "fmt"

// Summary represents the outcome of one job run.
type Summary struct {
	// Source is the job name
	Source string

	// Records is the number of listing records visited
	Records int

	// Downloaded counts icons fetched and written
	Downloaded int

	// Skipped counts records skipped by the dedupe set or an existing file
	Skipped int
}

// String formats the summary as printed by the coordinator
func (s Summary) String() string {
	return fmt.Sprintf("%s: %d downloaded, %d skipped of %d records",
		s.Source, s.Downloaded, s.Skipped, s.Records)
}
