package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Sample Feed</title>
<link>https://example.com</link>
<item>
<title>First entry</title>
<link>https://example.com/first</link>
<description>Short description of the first entry</description>
<pubDate>Mon, 10 Mar 2025 09:00:00 GMT</pubDate>
</item>
<item>
<title>Second entry</title>
<link>https://example.com/second</link>
<content:encoded xmlns:content="http://purl.org/rss/1.0/modules/content/">Full content only, no description</content:encoded>
</item>
</channel>
</rss>`

func TestFetchParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewRSSFetcher(NewHTTPClient(5 * time.Second))

	items, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "First entry", items[0].Title)
	assert.Equal(t, "https://example.com/first", items[0].Link)
	assert.Equal(t, "Short description of the first entry", items[0].Summary)
	require.NotNil(t, items[0].PublishedParsed)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), items[0].PublishedParsed.UTC())

	// description missing, content used instead
	assert.Equal(t, "Full content only, no description", items[1].Summary)
	assert.Nil(t, items[1].PublishedParsed)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewRSSFetcher(NewHTTPClient(5 * time.Second))

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, userAgent, gotUA)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewRSSFetcher(NewHTTPClient(5 * time.Second))

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	f := NewRSSFetcher(NewHTTPClient(5 * time.Second))

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchEmptyFeed(t *testing.T) {
	const emptyRSS = `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(emptyRSS))
	}))
	defer srv.Close()

	f := NewRSSFetcher(NewHTTPClient(5 * time.Second))

	items, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, items)
}
