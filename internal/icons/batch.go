// Package icons implements the list, dedupe, fetch and write loop shared by
// every icon source.
package icons

import (
	"context"
	"fmt"
	"log/slog"

	"iconfetcher/internal/fetcher"
)

// Group is an ordered run of records that share progress reporting.
// Single-listing sources have exactly one group with an empty name.
type Group[R any] struct {
	Name    string
	Records []R
}

// Store is where icons are kept between runs
type Store interface {
	Exists(slug string) (bool, error)
	Write(slug string, data []byte) error
	Path(slug string) string
}

// Downloader fetches raw image bytes
type Downloader interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// Batch downloads one icon per unique slug of a listing.
type Batch[R any] struct {
	Source string

	List     func(ctx context.Context) ([]Group[R], error)
	Slug     func(rec R) (string, error)
	ImageURL func(slug string, rec R) (string, error)

	// SkipSeen decides whether a record whose slug was already processed
	// in this run is skipped. Nil disables the in-run dedupe set, leaving the
	// existence check as the only guard.
	SkipSeen func(rec R) bool

	Store    Store
	Client   Downloader
	Reporter Reporter
}

// Name implements fetcher.Job
func (b *Batch[R]) Name() string {
	return b.Source
}

// Run implements fetcher.Job
func (b *Batch[R]) Run(ctx context.Context) (fetcher.Summary, error) {
	summary := fetcher.Summary{Source: b.Source}

	groups, err := b.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch listing: %w", err)
	}

	// slug -> written during this run
	var seen map[string]bool
	if b.SkipSeen != nil {
		seen = make(map[string]bool)
	}

	for _, g := range groups {
		if g.Name != "" {
			slog.Debug("processing group", "source", b.Source, "group", g.Name, "records", len(g.Records))
		}

		for i, rec := range g.Records {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			summary.Records++

			done, err := b.process(ctx, seen, g, i, rec)
			if err != nil {
				return summary, wrapGroup(g.Name, err)
			}
			if done {
				summary.Downloaded++
			} else {
				summary.Skipped++
			}
		}
	}

	slog.Info("source complete",
		"source", b.Source,
		"records", summary.Records,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped)

	return summary, nil
}

// process handles one record and reports whether an icon was written
func (b *Batch[R]) process(ctx context.Context, seen map[string]bool, g Group[R], i int, rec R) (bool, error) {
	slug, err := b.Slug(rec)
	if err != nil {
		return false, fmt.Errorf("record %d: %w", i, err)
	}

	override := false
	if seen != nil {
		if _, ok := seen[slug]; ok {
			if b.SkipSeen(rec) {
				b.Reporter.Skipped(slug, ReasonSeen)
				return false, nil
			}
			override = true
		} else {
			seen[slug] = false
		}
	}

	b.Reporter.Progress(g.Name, float64(i)/float64(len(g.Records)))

	exists, err := b.Store.Exists(slug)
	if err != nil {
		return false, fmt.Errorf("%s: %w", slug, err)
	}
	// An override may only replace a file this run wrote itself.
	if exists && !(override && seen[slug]) {
		b.Reporter.Skipped(slug, ReasonExists)
		return false, nil
	}

	url, err := b.ImageURL(slug, rec)
	if err != nil {
		return false, fmt.Errorf("%s: %w", slug, err)
	}

	data, err := b.Client.GetBytes(ctx, url)
	if err != nil {
		return false, fmt.Errorf("%s: %w", slug, err)
	}

	if err := b.Store.Write(slug, data); err != nil {
		return false, fmt.Errorf("%s: %w", slug, err)
	}
	if seen != nil {
		seen[slug] = true
	}

	b.Reporter.Saved(slug, b.Store.Path(slug))
	return true, nil
}

func wrapGroup(name string, err error) error {
	if name == "" {
		return err
	}
	return fmt.Errorf("group %s: %w", name, err)
}
