package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instagramRSSFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>spazio_grigio</title>
    <item>
      <title>Nuovo post</title>
      <link>https://www.instagram.com/p/abc/</link>
      <description>&lt;p&gt;Meno cose, &lt;b&gt;più vita&lt;/b&gt;&lt;/p&gt;</description>
      <pubDate>Mon, 15 Jan 2024 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSHubURL(t *testing.T) {
	r := NewRSSHub("https://rsshub.example.com/", "spazio_grigio")
	assert.Equal(t, "https://rsshub.example.com/instagram/user/spazio_grigio", r.url)
}

func TestRSSHubFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instagram/user/spazio_grigio", r.URL.Path)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(instagramRSSFixture))
	}))
	defer srv.Close()

	items, err := NewRSSHub(srv.URL, "spazio_grigio").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "instagram", items[0].Origin)
	assert.Equal(t, "https://www.instagram.com/p/abc/", items[0].URL)
	assert.Equal(t, "Meno cose, più vita", items[0].Summary, "description is flattened to plain text")
	assert.False(t, items[0].PublishedAt.IsZero())
}

func TestRSSHubFetchUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRSSHub(srv.URL, "spazio_grigio").Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
