package chains

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"iconfetcher/internal/fetcher"
	"iconfetcher/internal/icons"
)

// Source is the job name for chain icons
const Source = "chains"

// Chain is one entry of the chains listing. Other fields are ignored.
type Chain struct {
	Name *string `json:"name"`
}

// Options configures the chain icon job
type Options struct {
	ListURL  string
	IconBase string
	IconSize int
}

// List fetches the chain listing as a single group
func List(client *fetcher.Client, listURL string) func(ctx context.Context) ([]icons.Group[Chain], error) {
	return func(ctx context.Context) ([]icons.Group[Chain], error) {
		var chains []Chain
		if err := client.GetJSON(ctx, listURL, &chains); err != nil {
			return nil, err
		}
		return []icons.Group[Chain]{{Records: chains}}, nil
	}
}

// Slug lowercases the chain name
func Slug(c Chain) (string, error) {
	if c.Name == nil {
		return "", fetcher.NewValidationError("chain record has no name")
	}
	return strings.ToLower(*c.Name), nil
}

// ImageURL builds the resized chain icon URL: <base>/chains/rsz_<slug>?w=<size>&h=<size>
func ImageURL(base string, size int) func(slug string, c Chain) (string, error) {
	base = strings.TrimRight(base, "/")
	return func(slug string, c Chain) (string, error) {
		return fmt.Sprintf("%s/chains/rsz_%s?w=%d&h=%d", base, url.PathEscape(slug), size, size), nil
	}
}

// NewChainsJob creates the chain icon job. Chains have no in-run dedupe set:
// a name repeated in the listing is caught by the existence check once the
// first copy has been written.
func NewChainsJob(client *fetcher.Client, st icons.Store, reporter icons.Reporter, opts Options) *icons.Batch[Chain] {
	return &icons.Batch[Chain]{
		Source:   Source,
		List:     List(client, opts.ListURL),
		Slug:     Slug,
		ImageURL: ImageURL(opts.IconBase, opts.IconSize),
		Store:    st,
		Client:   client,
		Reporter: reporter,
	}
}
