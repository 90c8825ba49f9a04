package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compeers-ai/market-harvest/internal/fetcher"
)

const atomFixture = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Acme Corp filings</title>
  <entry>
    <title>10-K - ACME CORP (0000123456)</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/Archives/acme-10k-2023.htm"/>
    <updated>2024-02-01T12:00:00-05:00</updated>
  </entry>
  <entry>
    <title>10-K - ACME CORP (0000123456)</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/Archives/acme-10k-2022.htm"/>
    <updated>2023-02-03T09:30:00-05:00</updated>
  </entry>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := fetcher.NewHTTPFetcher(fetcher.Options{Timeout: 5 * time.Second})
	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	return NewClient(f, opts...), srv
}

func TestClient_Search(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi-bin/browse-edgar", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"action":  q.Get("action"),
			"company": q.Get("company"),
			"type":    q.Get("type"),
			"count":   q.Get("count"),
			"output":  q.Get("output"),
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFixture))
	})

	filings, err := client.Search(context.Background(), "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"action":  "getcompany",
		"company": "Acme Corp",
		"type":    "10-K",
		"count":   "20",
		"output":  "atom",
	}, gotQuery)

	require.Len(t, filings, 2)
	assert.Equal(t, "10-K - ACME CORP (0000123456)", filings[0].Title)
	assert.Equal(t, "https://www.sec.gov/Archives/acme-10k-2023.htm", filings[0].Link)
	assert.Equal(t, "2024-02-01T12:00:00-05:00", filings[0].Updated)
	assert.Equal(t, "https://www.sec.gov/Archives/acme-10k-2022.htm", filings[1].Link)
}

func TestClient_SearchOptions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10-Q", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(atomFixture))
	}, WithFilingType("10-Q"), WithCount(5))

	_, err := client.Search(context.Background(), "Acme")
	require.NoError(t, err)
}

func TestClient_SearchEmptyFeed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	filings, err := client.Search(context.Background(), "Nobody Inc")
	require.NoError(t, err)
	assert.Empty(t, filings)
}

func TestClient_SearchServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 503")
}

func TestClient_SearchMalformedFeed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<feed><entry><title>broken"))
	})

	_, err := client.Search(context.Background(), "Acme")
	require.Error(t, err)
}

func TestClient_FetchFiling(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/filing.htm" {
			_, _ = w.Write([]byte("filing text 2021 140"))
			return
		}
		http.NotFound(w, r)
	})

	text, err := client.FetchFiling(context.Background(), srv.URL+"/filing.htm")
	require.NoError(t, err)
	assert.Equal(t, "filing text 2021 140", text)
}
