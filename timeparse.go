package searxng

import (
	"strings"
	"time"
)

// publishedDateLayouts covers the timestamp renderings observed across SearXNG
// engines. Wikipedia-backed engines emit bare ISO dates, news engines emit
// RFC3339 with and without zone, a few emit space-separated datetimes.
var publishedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// parsePublishedDate parses a timestamp with a tolerant layout list. It
// returns nil for anything unparsable; a bad date never fails a record.
func parsePublishedDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range publishedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
