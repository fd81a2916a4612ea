package testutil

import (
	"context"
	"sync"

	"iconfetcher/internal/fetcher"
)

// MockJob is a mock implementation of the Job interface for testing
type MockJob struct {
	RunFunc  func(ctx context.Context) (fetcher.Summary, error)
	NameFunc func() string
}

// Run implements the Job interface
func (m *MockJob) Run(ctx context.Context) (fetcher.Summary, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx)
	}
	return fetcher.Summary{Source: m.Name()}, nil
}

// Name implements the Job interface
func (m *MockJob) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// NewMockJob creates a simple mock job with a predefined summary
func NewMockJob(name string, downloaded int, err error) fetcher.Job {
	return &MockJob{
		RunFunc: func(ctx context.Context) (fetcher.Summary, error) {
			return fetcher.Summary{Source: name, Records: downloaded, Downloaded: downloaded}, err
		},
		NameFunc: func() string {
			return name
		},
	}
}

// Skip is one skip notice captured by Recorder
type Skip struct {
	Slug   string
	Reason string
}

// Recorder is a Reporter that keeps every event for assertions
type Recorder struct {
	mu        sync.Mutex
	Fractions []float64
	Skips     []Skip
	Saves     []string
}

// Progress implements icons.Reporter
func (r *Recorder) Progress(group string, fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fractions = append(r.Fractions, fraction)
}

// Skipped implements icons.Reporter
func (r *Recorder) Skipped(slug, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skips = append(r.Skips, Skip{Slug: slug, Reason: reason})
}

// Saved implements icons.Reporter
func (r *Recorder) Saved(slug, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saves = append(r.Saves, slug)
}
