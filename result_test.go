package searxng

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, raw string) SearchResult {
	t.Helper()
	record, ok := decodeResult(json.RawMessage(raw))
	require.True(t, ok, "expected entry to decode: %s", raw)
	return record
}

func TestDecodeResult_SelectsMainShape(t *testing.T) {
	record := decodeOne(t, `{
		"title": "Go (programming language)",
		"url": "https://go.dev",
		"content": "An open-source programming language",
		"engine": "duckduckgo",
		"engines": ["duckduckgo", "brave"],
		"template": "default.html",
		"score": 4.5,
		"positions": [1, 3],
		"category": "general",
		"author": "The Go Authors"
	}`)

	assert.Equal(t, KindMain, record.Kind())
	require.NotNil(t, record.Main())
	assert.Nil(t, record.Legacy())

	main := record.Main()
	require.NotNil(t, main.Title)
	assert.Equal(t, "Go (programming language)", *main.Title)
	require.NotNil(t, main.Score)
	assert.InDelta(t, 4.5, *main.Score, 0.0001)
	assert.Equal(t, []int{1, 3}, main.Positions)
	assert.Equal(t, []string{"duckduckgo", "brave"}, main.Engines)
	require.NotNil(t, main.Author)
	assert.Equal(t, "The Go Authors", *main.Author)
}

func TestDecodeResult_SelectsLegacyShape(t *testing.T) {
	record := decodeOne(t, `{
		"title": "Go (programming language)",
		"url": "https://go.dev/",
		"pretty_url": "go.dev",
		"engine": "duckduckgo",
		"score": 4.5
	}`)

	assert.Equal(t, KindLegacy, record.Kind())
	require.NotNil(t, record.Legacy())
	assert.Nil(t, record.Main())
	require.NotNil(t, record.Legacy().PrettyURL)
	assert.Equal(t, "go.dev", *record.Legacy().PrettyURL)
}

func TestDecodeResult_SameContentBothConventions(t *testing.T) {
	main := decodeOne(t, `{"title": "Rust", "url": "https://rust-lang.org"}`)
	legacy := decodeOne(t, `{"title": "Rust", "pretty_url": "https://rust-lang.org"}`)

	assert.Equal(t, KindMain, main.Kind())
	assert.Equal(t, KindLegacy, legacy.Kind())
	assert.Equal(t, main.DisplayTitle(), legacy.DisplayTitle())
	assert.Equal(t, main.DisplayURL(), legacy.DisplayURL())
}

func TestDecodeResult_MainDistinctiveFieldRulesOutLegacy(t *testing.T) {
	// iframe_src exists only in the main shape, so a pretty_url entry that
	// also carries it matches neither convention.
	_, ok := decodeResult(json.RawMessage(`{"title": "x", "pretty_url": "u", "iframe_src": "f"}`))
	assert.False(t, ok)
}

func TestDecodeResult_RequiresIdentifyingField(t *testing.T) {
	for _, raw := range []string{
		`{"content": "snippet without title or url"}`,
		`{"title": 123, "score": 1.0}`,
		`{"url": null}`,
		`{}`,
	} {
		_, ok := decodeResult(json.RawMessage(raw))
		assert.False(t, ok, "expected entry to be rejected: %s", raw)
	}
}

func TestDecodeResult_TypeMismatchDegradesToAbsent(t *testing.T) {
	record := decodeOne(t, `{
		"title": "T",
		"url": "https://t.example",
		"score": "not a number",
		"engines": "not an array",
		"positions": [1, "two", 3],
		"content": 17
	}`)

	main := record.Main()
	require.NotNil(t, main)
	assert.Nil(t, main.Score)
	assert.Nil(t, main.Engines)
	assert.Nil(t, main.Positions)
	assert.Nil(t, main.Content)
	// Absence is distinguishable from an empty value.
	assert.Equal(t, "", record.Content())
}

func TestDecodeResult_MissingTimestampIsNotFatal(t *testing.T) {
	record := decodeOne(t, `{"title": "T", "url": "https://t.example"}`)
	assert.Nil(t, record.Main().PublishedDate)

	record = decodeOne(t, `{"title": "T", "url": "https://t.example", "publishedDate": "definitely not a date"}`)
	assert.Nil(t, record.Main().PublishedDate)
}

func TestDecodeResult_ParsesTimestamp(t *testing.T) {
	record := decodeOne(t, `{"title": "T", "url": "https://t.example", "publishedDate": "2024-03-01T12:30:00"}`)
	require.NotNil(t, record.Main().PublishedDate)
	expected := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.True(t, record.Main().PublishedDate.Equal(expected))
}

func TestDecodeResult_EngineQuirkFieldsLandInExtra(t *testing.T) {
	record := decodeOne(t, `{
		"title": "ubuntu-24.04.iso",
		"url": "https://releases.ubuntu.com",
		"seed": 120,
		"leech": 4,
		"magnetlink": "magnet:?xt=urn:btih:abc"
	}`)

	main := record.Main()
	require.NotNil(t, main.Extra)
	assert.Equal(t, int64(120), main.Extra["seed"].Value().Int())
	assert.Equal(t, "magnet:?xt=urn:btih:abc", main.Extra["magnetlink"].Value().String())
	assert.NotContains(t, main.Extra, "title")
}

func TestDecodeResult_EmptyStringDistinctFromAbsent(t *testing.T) {
	reported := decodeOne(t, `{"title": "T", "url": "https://t.example", "content": ""}`)
	unreported := decodeOne(t, `{"title": "T", "url": "https://t.example"}`)

	require.NotNil(t, reported.Main().Content)
	assert.Equal(t, "", *reported.Main().Content)
	assert.Nil(t, unreported.Main().Content)
}

func TestSearchResult_DisplayFallbacks(t *testing.T) {
	titleOnly := decodeOne(t, `{"title": "only a title"}`)
	assert.Equal(t, "only a title", titleOnly.DisplayTitle())
	assert.Equal(t, "", titleOnly.DisplayURL())

	urlOnly := decodeOne(t, `{"url": "https://only-url.example"}`)
	assert.Equal(t, "", urlOnly.DisplayTitle())
	assert.Equal(t, "https://only-url.example", urlOnly.DisplayURL())
}

func TestSearchResult_LegacyDisplayPrefersPrettyURL(t *testing.T) {
	record := decodeOne(t, `{"title": "T", "url": "https://long.example/path?tracking=1", "pretty_url": "long.example"}`)
	assert.Equal(t, KindLegacy, record.Kind())
	assert.Equal(t, "long.example", record.DisplayURL())
}

func TestSearchResult_MarshalJSON(t *testing.T) {
	record := decodeOne(t, `{"title": "T", "url": "https://t.example", "score": 2.0}`)
	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"T"`)
	assert.Contains(t, string(data), `"score":2`)
}

func TestParsePublishedDate(t *testing.T) {
	cases := []struct {
		input string
		want  *time.Time
	}{
		{"2024-03-01T12:30:00Z", timePtr(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))},
		{"2024-03-01T12:30:00", timePtr(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))},
		{"2024-03-01 12:30:00", timePtr(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))},
		{"2024-03-01", timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		{"", nil},
		{"   ", nil},
		{"yesterday", nil},
	}
	for _, tc := range cases {
		got := parsePublishedDate(tc.input)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.input)
		} else {
			require.NotNil(t, got, "input %q", tc.input)
			assert.True(t, got.Equal(*tc.want), "input %q: got %v", tc.input, got)
		}
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
