package tokens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"iconfetcher/internal/fetcher"
	"iconfetcher/internal/icons"
)

// Source is the job name for token icons
const Source = "tokens"

// nextDataSelector locates the page's embedded Next.js payload
const nextDataSelector = "script#__NEXT_DATA__"

// Token is one entry of a chain's token list
type Token struct {
	Symbol   *string `json:"symbol"`
	Address  string  `json:"address"`
	LogoURI  *string `json:"logoURI"`
	// LogoURI2 is an alternate icon; nil when the field is absent
	LogoURI2 *string `json:"logoURI2"`
}

type nextData struct {
	Props struct {
		PageProps struct {
			TokenList json.RawMessage `json:"tokenList"`
		} `json:"pageProps"`
	} `json:"props"`
}

// Options configures the token icon job
type Options struct {
	PageURL string
}

// List fetches the swap page and returns one group per chain id, in page order
func List(client *fetcher.Client, pageURL string) func(ctx context.Context) ([]icons.Group[Token], error) {
	return func(ctx context.Context) ([]icons.Group[Token], error) {
		body, err := client.GetBytes(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		return ParsePage(pageURL, body)
	}
}

// ParsePage extracts the token lists embedded in the swap page HTML
func ParsePage(pageURL string, html []byte) ([]icons.Group[Token], error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fetcher.NewDecodeError(pageURL, "failed to parse HTML", err)
	}

	script := doc.Find(nextDataSelector).First()
	if script.Length() == 0 {
		return nil, fetcher.NewDecodeError(pageURL, "page has no "+nextDataSelector, nil)
	}

	var data nextData
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, fetcher.NewDecodeError(pageURL, "malformed "+nextDataSelector+" payload", err)
	}

	if len(data.Props.PageProps.TokenList) == 0 {
		return nil, fetcher.NewDecodeError(pageURL, "payload has no props.pageProps.tokenList", nil)
	}

	groups, err := decodeTokenList(data.Props.PageProps.TokenList)
	if err != nil {
		return nil, fetcher.NewDecodeError(pageURL, "malformed tokenList", err)
	}
	return groups, nil
}

// decodeTokenList walks the chain id -> tokens object keeping key order,
// which decides who wins a symbol shared across chains.
func decodeTokenList(raw json.RawMessage) ([]icons.Group[Token], error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var groups []icons.Group[Token]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		chainID, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}

		var list []Token
		if err := dec.Decode(&list); err != nil {
			return nil, fmt.Errorf("chain %s: %w", chainID, err)
		}
		groups = append(groups, icons.Group[Token]{Name: chainID, Records: list})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return groups, nil
}

// Slug lowercases the symbol and replaces "/" with "-"
func Slug(t Token) (string, error) {
	if t.Symbol == nil {
		return "", fetcher.NewValidationError(fmt.Sprintf("token %s has no symbol", t.Address))
	}
	return strings.ReplaceAll(strings.ToLower(*t.Symbol), "/", "-"), nil
}

// ImageURL prefers a non-empty logoURI2 over logoURI
func ImageURL(slug string, t Token) (string, error) {
	if t.LogoURI2 != nil && *t.LogoURI2 != "" {
		return *t.LogoURI2, nil
	}
	if t.LogoURI == nil || *t.LogoURI == "" {
		return "", fetcher.NewValidationError(fmt.Sprintf("token %s (%s) has no logo URL", slug, t.Address))
	}
	return *t.LogoURI, nil
}

// SkipSeen skips a repeated symbol unless the record carries logoURI2.
// Tokens sharing a symbol across chains therefore keep the first chain's icon.
func SkipSeen(t Token) bool {
	return t.LogoURI2 == nil
}

// NewTokensJob creates the token icon job
func NewTokensJob(client *fetcher.Client, st icons.Store, reporter icons.Reporter, opts Options) *icons.Batch[Token] {
	return &icons.Batch[Token]{
		Source:   Source,
		List:     List(client, opts.PageURL),
		Slug:     Slug,
		ImageURL: ImageURL,
		SkipSeen: SkipSeen,
		Store:    st,
		Client:   client,
		Reporter: reporter,
	}
}
