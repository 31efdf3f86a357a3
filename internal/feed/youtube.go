package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const youtubeFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// YouTube fetches the uploads feed of one channel via the public Atom
// endpoint.
type YouTube struct {
	url    string
	parser *gofeed.Parser
}

// NewYouTube builds a source for the given channel ID.
func NewYouTube(channelID string) *YouTube {
	return newYouTubeURL(fmt.Sprintf(youtubeFeedURL, channelID))
}

func newYouTubeURL(url string) *YouTube {
	p := gofeed.NewParser()
	p.UserAgent = fetchUserAgent
	p.Client = &http.Client{Timeout: 30 * time.Second}
	return &YouTube{url: url, parser: p}
}

func (y *YouTube) Fetch(ctx context.Context) ([]Item, error) {
	parsed, err := y.parser.ParseURLWithContext(y.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: youtube feed: %v", ErrUnavailable, err)
	}
	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, Item{
			Origin:      "youtube",
			Title:       it.Title,
			URL:         it.Link,
			PublishedAt: itemPublishedTime(it),
		})
	}
	sortByPublished(items)
	return items, nil
}
