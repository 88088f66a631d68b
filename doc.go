// Package searxng is a client for the SearXNG metasearch API.
//
// SearXNG aggregates many backend search engines, and each engine contributes
// result fields with different names, types and optionality. The package's
// normalization layer accepts that drift: it decodes every result entry
// against the two known result shapes in order, degrades any non-identifying
// deviation to an absent optional field, preserves engine-specific extras as
// opaque traversable JSON, and drops (while counting) only the entries that
// match neither shape. One malformed record never fails the rest of a
// response.
//
// A minimal search:
//
//	client, err := searxng.New("https://searx.example", searxng.FormatJSON)
//	if err != nil {
//		return err
//	}
//	results, err := client.Search("go generics").
//		Categories("general").
//		Language("en").
//		SendGetNum(ctx, 10)
//
// The instance must have the JSON format enabled in its search.formats
// setting, or every call fails with a MalformedResponseError.
package searxng
