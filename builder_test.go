package searxng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	client, err := New("https://searx.example", FormatJSON)
	require.NoError(t, err)
	return client
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://searx.example", FormatJSON)
	assert.Error(t, err)

	_, err = New("://", FormatJSON)
	assert.Error(t, err)

	_, err = New("https://searx.example/", FormatJSON)
	assert.NoError(t, err)
}

func TestBuilder_ValidQueryNeverFailsAtBuildTime(t *testing.T) {
	client := testClient(t)
	for _, query := range []string{"rust", "a b c", "日本語", "q!@#$%"} {
		builder := client.Search(query).
			Page(2).
			Categories("news").
			Engines("duckduckgo").
			Language("en").
			TimeRange(TimeRangeMonth).
			SafeSearch(1)
		assert.NoError(t, builder.Err(), "query %q", query)
	}
}

func TestBuilder_EmptyQuery(t *testing.T) {
	client := testClient(t)
	for _, query := range []string{"", "   ", "\t"} {
		builder := client.Search(query)
		var invalid *InvalidParameterError
		require.ErrorAs(t, builder.Err(), &invalid, "query %q", query)
		assert.Equal(t, "q", invalid.Param)
	}
}

func TestBuilder_SetterValidation(t *testing.T) {
	client := testClient(t)
	cases := []struct {
		name  string
		build func() *SearchBuilder
		param string
	}{
		{"page zero", func() *SearchBuilder { return client.Search("q").Page(0) }, "pageno"},
		{"page negative", func() *SearchBuilder { return client.Search("q").Page(-3) }, "pageno"},
		{"no categories", func() *SearchBuilder { return client.Search("q").Categories() }, "categories"},
		{"blank category", func() *SearchBuilder { return client.Search("q").Categories("news", " ") }, "categories"},
		{"no engines", func() *SearchBuilder { return client.Search("q").Engines() }, "engines"},
		{"bad language", func() *SearchBuilder { return client.Search("q").Language("not a tag!") }, "language"},
		{"bad time range", func() *SearchBuilder { return client.Search("q").TimeRange("week") }, "time_range"},
		{"safesearch too high", func() *SearchBuilder { return client.Search("q").SafeSearch(3) }, "safesearch"},
		{"safesearch negative", func() *SearchBuilder { return client.Search("q").SafeSearch(-1) }, "safesearch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var invalid *InvalidParameterError
			require.ErrorAs(t, tc.build().Err(), &invalid)
			assert.Equal(t, tc.param, invalid.Param)
		})
	}
}

func TestBuilder_ValidationErrorSurfacesBeforeNetwork(t *testing.T) {
	// The client has no reachable instance; an invalid builder must fail
	// with its own error, not a transport error.
	client := testClient(t)
	builder := client.Search("q").Page(0)

	_, err := builder.Send(context.Background())
	var invalid *InvalidParameterError
	require.ErrorAs(t, err, &invalid)

	_, err = builder.SendGetNum(context.Background(), 5)
	require.ErrorAs(t, err, &invalid)
}

func TestBuilder_FirstValidationErrorWins(t *testing.T) {
	client := testClient(t)
	builder := client.Search("q").Page(0).SafeSearch(9)

	var invalid *InvalidParameterError
	require.ErrorAs(t, builder.Err(), &invalid)
	assert.Equal(t, "pageno", invalid.Param)
}

func TestBuilder_SendGetNumRejectsNonPositiveCount(t *testing.T) {
	client := testClient(t)
	for _, num := range []int{0, -1} {
		_, err := client.Search("q").SendGetNum(context.Background(), num)
		var invalid *InvalidParameterError
		require.ErrorAs(t, err, &invalid, "num %d", num)
		assert.Equal(t, "num", invalid.Param)
	}
}

func TestSearchParams_SerializesExactlyTheSetFilters(t *testing.T) {
	client := testClient(t)
	values := client.Search("golang news").
		Categories("news").
		Page(2).
		Params().Values()

	// Exactly q, format and the two set filters; nothing else.
	assert.Len(t, values, 4)
	assert.Equal(t, "golang news", values.Get("q"))
	assert.Equal(t, "json", values.Get("format"))
	assert.Equal(t, "news", values.Get("categories"))
	assert.Equal(t, "2", values.Get("pageno"))
}

func TestSearchParams_SetterOrderIrrelevant(t *testing.T) {
	client := testClient(t)
	a := client.Search("q").Categories("news").Page(2).Language("en").Params().Values()
	b := client.Search("q").Language("en").Page(2).Categories("news").Params().Values()
	assert.Equal(t, a.Encode(), b.Encode())
}

func TestSearchParams_CommaSeparatedLists(t *testing.T) {
	client := testClient(t)
	values := client.Search("q").
		Categories("general", "news").
		Engines("duckduckgo", "brave", "wikipedia").
		Params().Values()

	assert.Equal(t, "general,news", values.Get("categories"))
	assert.Equal(t, "duckduckgo,brave,wikipedia", values.Get("engines"))
}

func TestSearchParams_InstancePreferenceFilters(t *testing.T) {
	client := testClient(t)
	builder := client.Search("q").
		Autocomplete("duckduckgo").
		Theme("simple").
		ImageProxy(true).
		ResultsOnNewTab(false)
	require.NoError(t, builder.Err())

	values := builder.Params().Values()
	assert.Len(t, values, 6)
	assert.Equal(t, "duckduckgo", values.Get("autocomplete"))
	assert.Equal(t, "simple", values.Get("theme"))
	assert.Equal(t, "1", values.Get("image_proxy"))
	assert.Equal(t, "0", values.Get("results_on_new_tab"))
}

func TestSearchParams_BooleanFiltersSerializeBothStates(t *testing.T) {
	client := testClient(t)
	values := client.Search("q").ImageProxy(false).ResultsOnNewTab(true).Params().Values()
	assert.Equal(t, "0", values.Get("image_proxy"))
	assert.Equal(t, "1", values.Get("results_on_new_tab"))

	// Unset booleans contribute nothing; false is a reported value, not a
	// default.
	unset := client.Search("q").Params().Values()
	assert.False(t, unset.Has("image_proxy"))
	assert.False(t, unset.Has("results_on_new_tab"))
}

func TestSearchParams_LanguageAll(t *testing.T) {
	client := testClient(t)
	builder := client.Search("q").Language(LanguageAll)
	require.NoError(t, builder.Err())
	assert.Equal(t, "all", builder.Params().Values().Get("language"))
}
