// Package edgar locates SEC EDGAR filings for a company via the public
// browse-edgar Atom feed and retrieves filing documents.
package edgar

import (
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/compeers-ai/market-harvest/internal/fetcher"
)

const (
	defaultBaseURL    = "https://www.sec.gov"
	defaultFilingType = "10-K"
	defaultCount      = 20
)

// Filing is one candidate filing descriptor from the EDGAR index.
type Filing struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Updated string `json:"updated"`
}

// Client queries the EDGAR filings index. One Search call issues exactly
// one index request; the result list is finite and not paginated beyond
// the configured count.
type Client struct {
	baseURL    string
	filingType string
	count      int
	fetcher    fetcher.Fetcher
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the SEC base URL (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithFilingType overrides the filing-type filter (default "10-K").
func WithFilingType(t string) Option {
	return func(c *Client) { c.filingType = t }
}

// WithCount overrides the maximum number of filings requested (default 20).
func WithCount(n int) Option {
	return func(c *Client) { c.count = n }
}

// NewClient creates an EDGAR client backed by the given fetcher.
func NewClient(f fetcher.Fetcher, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		filingType: defaultFilingType,
		count:      defaultCount,
		fetcher:    f,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type atomEntry struct {
	Title string `xml:"title"`
	Link  struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Updated string `xml:"updated"`
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

// Search queries the filings index by company name and returns candidate
// filing descriptors. Network or parse errors propagate: a company-mode
// harvest has no fallback data source.
func (c *Client) Search(ctx context.Context, company string) ([]Filing, error) {
	q := url.Values{}
	q.Set("action", "getcompany")
	q.Set("company", company)
	q.Set("type", c.filingType)
	q.Set("count", strconv.Itoa(c.count))
	q.Set("output", "atom")
	searchURL := c.baseURL + "/cgi-bin/browse-edgar?" + q.Encode()

	body, err := c.fetcher.Download(ctx, searchURL)
	if err != nil {
		return nil, eris.Wrapf(err, "edgar: search %q", company)
	}
	defer body.Close() //nolint:errcheck

	feed, err := decodeFeed(body)
	if err != nil {
		return nil, eris.Wrapf(err, "edgar: parse feed for %q", company)
	}

	filings := make([]Filing, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		filings = append(filings, Filing{
			Title:   e.Title,
			Link:    e.Link.Href,
			Updated: e.Updated,
		})
	}
	return filings, nil
}

// FetchFiling retrieves the content of one filing document.
func (c *Client) FetchFiling(ctx context.Context, link string) (string, error) {
	return c.fetcher.DownloadString(ctx, link)
}

func decodeFeed(r io.Reader) (*atomFeed, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "edgar: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var feed atomFeed
	if err := decoder.Decode(&feed); err != nil {
		return nil, eris.Wrap(err, "edgar: decode atom feed")
	}
	return &feed, nil
}

