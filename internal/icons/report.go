package icons

import (
	"fmt"
	"io"
	"log/slog"
)

// Skip reasons passed to Reporter.Skipped
const (
	ReasonSeen   = "was already processed"
	ReasonExists = "already exists"
)

// Reporter receives human-readable progress for a batch
type Reporter interface {
	// Progress is called with the fraction of the group visited so far
	Progress(group string, fraction float64)
	Skipped(slug, reason string)
	Saved(slug, path string)
}

// Console prints progress lines to w
type Console struct {
	w io.Writer
}

// NewConsole creates a reporter writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Progress implements Reporter
func (c *Console) Progress(group string, fraction float64) {
	if group != "" {
		fmt.Fprintf(c.w, "[%s] progress: %.2f %%\n", group, fraction*100)
		return
	}
	fmt.Fprintf(c.w, "progress: %.2f %%\n", fraction*100)
}

// Skipped implements Reporter
func (c *Console) Skipped(slug, reason string) {
	fmt.Fprintf(c.w, "Skipping %s as it %s\n", slug, reason)
}

// Saved implements Reporter
func (c *Console) Saved(slug, path string) {
	slog.Info("saved icon", "slug", slug, "path", path)
}
