package repository

import (
	"strings"
	"time"

	"news_reader/internal/domain"
)

// PublishDateLayout renders dates as e.g. "2023-December-31 18:46".
const PublishDateLayout = "2006-January-02 15:04"

// publishedAtLayouts are tried in order. Seconds are optional.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// FormatPublishDate reformats an ISO 8601 timestamp for display, keeping the
// timestamp's own offset. A trailing region id such as "[Europe/Paris]" is
// ignored.
func FormatPublishDate(raw string) (string, bool) {
	if strings.HasSuffix(raw, "]") {
		if i := strings.LastIndexByte(raw, '['); i > 0 {
			raw = raw[:i]
		}
	}

	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(PublishDateLayout), true
		}
	}
	return "", false
}

// ToCachedArticle converts a remote article into a cache row. Articles that
// miss a required field or carry an unparseable date are rejected.
func ToCachedArticle(a domain.Article) (domain.CachedArticle, bool) {
	if !a.Convertible() {
		return domain.CachedArticle{}, false
	}

	date, ok := FormatPublishDate(*a.PublishedAt)
	if !ok {
		return domain.CachedArticle{}, false
	}

	return domain.CachedArticle{
		ImageURL:     a.ImageURL,
		Title:        a.Title,
		Description:  a.Description,
		PublishDate:  &date,
		Author:       a.Author,
		URLToArticle: a.URL,
	}, true
}
