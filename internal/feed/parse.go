package feed

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const fetchUserAgent = "Mozilla/5.0 (compatible; spazio-grigio-bot/1.0; +https://github.com/veeso/spazio-grigio-bot)"

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s{2,}`)
)

// itemPublishedTime returns the best publication instant for a feed entry,
// preferring Published over Updated. Zero when the entry carries no date.
func itemPublishedTime(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed.UTC()
	}
	if it.UpdatedParsed != nil {
		return it.UpdatedParsed.UTC()
	}
	return time.Time{}
}

// stripHTML flattens a feed description to plain text.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// sortByPublished orders items ascending by PublishedAt; undated items sink
// to the front so dated ones keep their relative order at the tail.
func sortByPublished(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.Before(items[j].PublishedAt)
	})
}
