package searxng

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// TimeRange restricts results to a recency window.
type TimeRange string

const (
	TimeRangeDay   TimeRange = "day"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
)

// LanguageAll disables language filtering on the instance.
const LanguageAll = "all"

// SearchParams is the request descriptor accumulated by a SearchBuilder.
//
// Reference: https://docs.searxng.org/dev/search_api.html
type SearchParams struct {
	Query           string
	Format          ResponseFormat
	Page            int
	Categories      []string
	Engines         []string
	Language        string
	TimeRange       TimeRange
	SafeSearch      *int
	Autocomplete    string
	Theme           string
	ImageProxy      *bool
	ResultsOnNewTab *bool
}

// Values serializes exactly the parameters that were set, plus the mandatory
// q and format. Unset filters contribute nothing; the order in which setters
// were called is irrelevant.
func (p SearchParams) Values() url.Values {
	values := url.Values{}
	values.Set("q", p.Query)
	values.Set("format", string(p.Format))
	if p.Page > 0 {
		values.Set("pageno", strconv.Itoa(p.Page))
	}
	if len(p.Categories) > 0 {
		values.Set("categories", strings.Join(p.Categories, ","))
	}
	if len(p.Engines) > 0 {
		values.Set("engines", strings.Join(p.Engines, ","))
	}
	if p.Language != "" {
		values.Set("language", p.Language)
	}
	if p.TimeRange != "" {
		values.Set("time_range", string(p.TimeRange))
	}
	if p.SafeSearch != nil {
		values.Set("safesearch", strconv.Itoa(*p.SafeSearch))
	}
	if p.Autocomplete != "" {
		values.Set("autocomplete", p.Autocomplete)
	}
	if p.Theme != "" {
		values.Set("theme", p.Theme)
	}
	if p.ImageProxy != nil {
		values.Set("image_proxy", boolParam(*p.ImageProxy))
	}
	if p.ResultsOnNewTab != nil {
		values.Set("results_on_new_tab", boolParam(*p.ResultsOnNewTab))
	}
	return values
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SearchBuilder configures and executes one search request. Setters validate
// their input when called and record the first violation; the terminal send
// operation returns it before any network activity. Builders are single-use
// and not safe for concurrent use; create a fresh one per query.
type SearchBuilder struct {
	client *Client
	params SearchParams
	err    error
}

func newSearchBuilder(client *Client, query string) *SearchBuilder {
	b := &SearchBuilder{
		client: client,
		params: SearchParams{
			Query:  query,
			Format: client.format,
		},
	}
	if strings.TrimSpace(query) == "" {
		b.fail("q", query, "query must not be empty")
	}
	return b
}

func (b *SearchBuilder) fail(param, value, reason string) {
	if b.err == nil {
		b.err = &InvalidParameterError{Param: param, Value: value, Reason: reason}
	}
}

// Page sets the result page to fetch. Pages are 1-based.
func (b *SearchBuilder) Page(n int) *SearchBuilder {
	if n < 1 {
		b.fail("pageno", strconv.Itoa(n), "page number must be >= 1")
		return b
	}
	b.params.Page = n
	return b
}

// Categories restricts the search to the given categories, e.g. "general",
// "news", "images".
func (b *SearchBuilder) Categories(categories ...string) *SearchBuilder {
	if len(categories) == 0 {
		b.fail("categories", "", "at least one category is required")
		return b
	}
	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			b.fail("categories", c, "category names must not be empty")
			return b
		}
	}
	b.params.Categories = categories
	return b
}

// Engines restricts the search to the given engine names, e.g. "duckduckgo",
// "wikipedia".
func (b *SearchBuilder) Engines(engines ...string) *SearchBuilder {
	if len(engines) == 0 {
		b.fail("engines", "", "at least one engine is required")
		return b
	}
	for _, e := range engines {
		if strings.TrimSpace(e) == "" {
			b.fail("engines", e, "engine names must not be empty")
			return b
		}
	}
	b.params.Engines = engines
	return b
}

// Language sets the search language as a BCP 47 tag, e.g. "en", "de-CH", or
// LanguageAll to disable filtering.
func (b *SearchBuilder) Language(tag string) *SearchBuilder {
	if tag == LanguageAll {
		b.params.Language = tag
		return b
	}
	if _, err := language.Parse(tag); err != nil {
		b.fail("language", tag, fmt.Sprintf("not a valid language tag: %v", err))
		return b
	}
	b.params.Language = tag
	return b
}

// TimeRange restricts results to the given recency window.
func (b *SearchBuilder) TimeRange(tr TimeRange) *SearchBuilder {
	switch tr {
	case TimeRangeDay, TimeRangeMonth, TimeRangeYear:
		b.params.TimeRange = tr
	default:
		b.fail("time_range", string(tr), "time range must be day, month or year")
	}
	return b
}

// SafeSearch sets the safe-search level: 0 (off), 1 (moderate) or 2 (strict).
func (b *SearchBuilder) SafeSearch(level int) *SearchBuilder {
	if level < 0 || level > 2 {
		b.fail("safesearch", strconv.Itoa(level), "safe search level must be 0, 1 or 2")
		return b
	}
	b.params.SafeSearch = &level
	return b
}

// Autocomplete selects the instance's autocomplete service.
func (b *SearchBuilder) Autocomplete(service string) *SearchBuilder {
	b.params.Autocomplete = service
	return b
}

// Theme selects the instance theme. Only meaningful for non-JSON formats.
func (b *SearchBuilder) Theme(theme string) *SearchBuilder {
	b.params.Theme = theme
	return b
}

// ImageProxy asks the instance to proxy image results.
func (b *SearchBuilder) ImageProxy(enabled bool) *SearchBuilder {
	b.params.ImageProxy = &enabled
	return b
}

// ResultsOnNewTab sets the instance's results_on_new_tab preference.
func (b *SearchBuilder) ResultsOnNewTab(enabled bool) *SearchBuilder {
	b.params.ResultsOnNewTab = &enabled
	return b
}

// Params returns the accumulated request descriptor.
func (b *SearchBuilder) Params() SearchParams {
	return b.params
}

// Err returns the first validation error recorded by a setter, if any.
func (b *SearchBuilder) Err() error {
	return b.err
}

// Send executes the search request and returns the full normalized response.
// It performs exactly one GET request.
func (b *SearchBuilder) Send(ctx context.Context) (*SearchResponse, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.client.doSearch(ctx, b.params)
}

// SendAll executes the search request and returns the normalized results of
// the configured page.
func (b *SearchBuilder) SendAll(ctx context.Context) ([]SearchResult, error) {
	resp, err := b.Send(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// emptyPageAttempts is how often an empty page is refetched before pagination
// gives up. SearXNG instances under load intermittently return empty result
// sets for pages that do have content.
const emptyPageAttempts = 3

// SendGetNum executes the search and paginates from page 1 upward until num
// results have been collected, the instance runs out of pages, or a request
// fails. An empty page is retried up to three times before it is taken as the
// end of the result set. The returned slice holds at most num results.
func (b *SearchBuilder) SendGetNum(ctx context.Context, num int) ([]SearchResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	if num <= 0 {
		return nil, &InvalidParameterError{Param: "num", Value: strconv.Itoa(num), Reason: "result count must be > 0"}
	}

	params := b.params
	results := make([]SearchResult, 0, num)
	for page := 1; len(results) < num; page++ {
		params.Page = page
		pageResults, err := b.client.sendEmptyCheckRetry(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(pageResults) == 0 {
			break
		}
		results = append(results, pageResults...)
	}
	if len(results) > num {
		results = results[:num]
	}
	return results, nil
}

// sendEmptyCheckRetry fetches one page, refetching an empty page up to
// emptyPageAttempts times.
func (c *Client) sendEmptyCheckRetry(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	for attempt := 0; attempt < emptyPageAttempts; attempt++ {
		resp, err := c.doSearch(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(resp.Results) > 0 {
			return resp.Results, nil
		}
	}
	return nil, nil
}

// doSearch performs one GET request against the instance and normalizes the
// body.
func (c *Client) doSearch(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	requestURL := c.searchURL() + "?" + params.Values().Encode()

	c.logger.WithFields(logrus.Fields{
		"url":      c.searchURL(),
		"query":    params.Query,
		"page":     params.Page,
		"language": params.Language,
	}).Debug("SearXNG search parameters")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.searchURL(), Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: c.searchURL(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			URL:        c.searchURL(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("SearXNG API error: %d %s", resp.StatusCode, resp.Status),
		}
	}

	normalized, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"query":        params.Query,
		"result_count": len(normalized.Results),
		"skipped":      normalized.SkippedResults,
	}).Info("SearXNG search completed successfully")

	return normalized, nil
}
