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

const youtubeAtomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>Spazio Grigio</title>
  <entry>
    <id>yt:video:bbb</id>
    <title>Decluttering estremo</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=bbb"/>
    <published>2024-02-02T10:00:00+00:00</published>
  </entry>
  <entry>
    <id>yt:video:aaa</id>
    <title>Vivere con poco</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=aaa"/>
    <published>2024-01-15T10:00:00+00:00</published>
  </entry>
</feed>`

func TestYouTubeFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(youtubeAtomFixture))
	}))
	defer srv.Close()

	items, err := newYouTubeURL(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// entries come back oldest first regardless of feed order
	assert.Equal(t, "Vivere con poco", items[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaa", items[0].URL)
	assert.Equal(t, "youtube", items[0].Origin)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), items[0].PublishedAt)
	assert.Equal(t, "Decluttering estremo", items[1].Title)
}

func TestYouTubeFetchUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newYouTubeURL(srv.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestYouTubeFeedURL(t *testing.T) {
	y := NewYouTube("UCAQ93l8dIhdYLkMTEtsbmgQ")
	assert.Equal(t, "https://www.youtube.com/feeds/videos.xml?channel_id=UCAQ93l8dIhdYLkMTEtsbmgQ", y.url)
}
