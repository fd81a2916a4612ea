package protocols

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"iconfetcher/internal/fetcher"
	"iconfetcher/internal/icons"
)

// Source is the job name for protocol icons
const Source = "protocols"

// Pool is one yield pool. Many pools share a project; the icon is per project.
type Pool struct {
	Project *string `json:"project"`
	Pool    string  `json:"pool"`
	Chain   string  `json:"chain"`
	Symbol  string  `json:"symbol"`
}

// PoolsResponse represents the pools listing
type PoolsResponse struct {
	Status string  `json:"status"`
	Data   *[]Pool `json:"data"`
}

// Options configures the protocol icon job
type Options struct {
	ListURL  string
	IconBase string
	IconSize int
}

// List fetches the pools listing as a single group
func List(client *fetcher.Client, listURL string) func(ctx context.Context) ([]icons.Group[Pool], error) {
	return func(ctx context.Context) ([]icons.Group[Pool], error) {
		var result PoolsResponse
		if err := client.GetJSON(ctx, listURL, &result); err != nil {
			return nil, err
		}

		if result.Data == nil {
			return nil, fetcher.NewDecodeError(listURL, "pools response has no data array", nil)
		}

		return []icons.Group[Pool]{{Records: *result.Data}}, nil
	}
}

// Slug lowercases the pool's project
func Slug(p Pool) (string, error) {
	if p.Project == nil {
		return "", fetcher.NewValidationError(fmt.Sprintf("pool %q has no project", p.Pool))
	}
	return strings.ToLower(*p.Project), nil
}

// ImageURL builds the protocol icon URL: <base>/protocols/<slug>?w=<size>&h=<size>
func ImageURL(base string, size int) func(slug string, p Pool) (string, error) {
	base = strings.TrimRight(base, "/")
	return func(slug string, p Pool) (string, error) {
		return fmt.Sprintf("%s/protocols/%s?w=%d&h=%d", base, url.PathEscape(slug), size, size), nil
	}
}

// NewProtocolsJob creates the protocol icon job. Every pool after the first
// one of a project is skipped.
func NewProtocolsJob(client *fetcher.Client, st icons.Store, reporter icons.Reporter, opts Options) *icons.Batch[Pool] {
	return &icons.Batch[Pool]{
		Source:   Source,
		List:     List(client, opts.ListURL),
		Slug:     Slug,
		ImageURL: ImageURL(opts.IconBase, opts.IconSize),
		SkipSeen: func(Pool) bool { return true },
		Store:    st,
		Client:   client,
		Reporter: reporter,
	}
}
