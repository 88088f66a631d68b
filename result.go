package searxng

import (
	"encoding/json"
	"time"
)

// ResultKind identifies which of the two known result shapes a record
// resolved to. The wire format carries no discriminant; the choice is made
// structurally at decode time.
type ResultKind int

const (
	// KindMain is the current result shape emitted by SearXNG.
	KindMain ResultKind = iota
	// KindLegacy is the older field convention still emitted by some
	// instances and engines.
	KindLegacy
)

func (k ResultKind) String() string {
	if k == KindLegacy {
		return "legacy"
	}
	return "main"
}

// MainResult is a search result in the current SearXNG shape. Every
// non-identifying field is optional: a nil pointer (or nil slice) means the
// engine did not report the field, which is distinct from an empty value.
type MainResult struct {
	Title         *string    `json:"title,omitempty"`
	URL           *string    `json:"url,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Engine        *string    `json:"engine,omitempty"`
	Engines       []string   `json:"engines,omitempty"`
	ParsedURL     []string   `json:"parsed_url,omitempty"`
	Template      *string    `json:"template,omitempty"`
	ImgSrc        *string    `json:"img_src,omitempty"`
	IframeSrc     *string    `json:"iframe_src,omitempty"`
	AudioSrc      *string    `json:"audio_src,omitempty"`
	Thumbnail     *string    `json:"thumbnail,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	// Pubdate is deprecated upstream in favour of publishedDate but still
	// emitted by some engines.
	Pubdate    *string  `json:"pubdate,omitempty"`
	Length     *string  `json:"length,omitempty"`
	Views      *string  `json:"views,omitempty"`
	Author     *string  `json:"author,omitempty"`
	Metadata   *string  `json:"metadata,omitempty"`
	Priority   *string  `json:"priority,omitempty"`
	OpenGroup  *bool    `json:"open_group,omitempty"`
	CloseGroup *bool    `json:"close_group,omitempty"`
	Positions  []int    `json:"positions,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Category   *string  `json:"category,omitempty"`
	// Extra holds engine-specific fields the typed model does not name
	// (torrent seeds, map coordinates, code snippets and so on).
	Extra map[string]RawValue `json:"extra,omitempty"`
}

// LegacyResult is a search result in the older field convention.
type LegacyResult struct {
	Title         *string             `json:"title,omitempty"`
	URL           *string             `json:"url,omitempty"`
	PrettyURL     *string             `json:"pretty_url,omitempty"`
	Content       *string             `json:"content,omitempty"`
	Engine        *string             `json:"engine,omitempty"`
	Engines       []string            `json:"engines,omitempty"`
	ParsedURL     []string            `json:"parsed_url,omitempty"`
	Template      *string             `json:"template,omitempty"`
	ImgSrc        *string             `json:"img_src,omitempty"`
	Thumbnail     *string             `json:"thumbnail,omitempty"`
	PublishedDate *time.Time          `json:"publishedDate,omitempty"`
	Pubdate       *string             `json:"pubdate,omitempty"`
	Priority      *string             `json:"priority,omitempty"`
	Positions     []int               `json:"positions,omitempty"`
	Score         *float64            `json:"score,omitempty"`
	Category      *string             `json:"category,omitempty"`
	Extra         map[string]RawValue `json:"extra,omitempty"`
}

// SearchResult is an explicit tagged sum over the two known result shapes.
// Exactly one of the variant accessors returns non-nil.
type SearchResult struct {
	kind   ResultKind
	main   *MainResult
	legacy *LegacyResult
}

// Kind reports which shape this record decoded as.
func (r SearchResult) Kind() ResultKind {
	return r.kind
}

// Main returns the main-shape record, or nil for a legacy record.
func (r SearchResult) Main() *MainResult {
	return r.main
}

// Legacy returns the legacy-shape record, or nil for a main record.
func (r SearchResult) Legacy() *LegacyResult {
	return r.legacy
}

// DisplayTitle returns a best-effort title regardless of shape. It never
// fails; a record whose title was absent yields the empty string.
func (r SearchResult) DisplayTitle() string {
	switch r.kind {
	case KindLegacy:
		if r.legacy != nil && r.legacy.Title != nil {
			return *r.legacy.Title
		}
	default:
		if r.main != nil && r.main.Title != nil {
			return *r.main.Title
		}
	}
	return ""
}

// DisplayURL returns a best-effort URL regardless of shape. Legacy records
// prefer pretty_url when present.
func (r SearchResult) DisplayURL() string {
	switch r.kind {
	case KindLegacy:
		if r.legacy != nil {
			if r.legacy.PrettyURL != nil {
				return *r.legacy.PrettyURL
			}
			if r.legacy.URL != nil {
				return *r.legacy.URL
			}
		}
	default:
		if r.main != nil && r.main.URL != nil {
			return *r.main.URL
		}
	}
	return ""
}

// Content returns a best-effort snippet regardless of shape.
func (r SearchResult) Content() string {
	switch r.kind {
	case KindLegacy:
		if r.legacy != nil && r.legacy.Content != nil {
			return *r.legacy.Content
		}
	default:
		if r.main != nil && r.main.Content != nil {
			return *r.main.Content
		}
	}
	return ""
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	if r.kind == KindLegacy {
		return json.Marshal(r.legacy)
	}
	return json.Marshal(r.main)
}

// mainFields is the complete key set of the main shape. Keys outside it that
// are not distinctive of the legacy shape land in the Extra bag.
var mainFields = map[string]bool{
	"title": true, "url": true, "content": true, "engine": true,
	"engines": true, "parsed_url": true, "template": true, "img_src": true,
	"iframe_src": true, "audio_src": true, "thumbnail": true,
	"publishedDate": true, "pubdate": true, "length": true, "views": true,
	"author": true, "metadata": true, "priority": true, "open_group": true,
	"close_group": true, "positions": true, "score": true, "category": true,
}

var legacyFields = map[string]bool{
	"title": true, "url": true, "pretty_url": true, "content": true,
	"engine": true, "engines": true, "parsed_url": true, "template": true,
	"img_src": true, "thumbnail": true, "publishedDate": true,
	"pubdate": true, "priority": true, "positions": true, "score": true,
	"category": true,
}

// mainOnlyFields are distinctive of the main shape: their presence rules the
// legacy decode out.
var mainOnlyFields = []string{
	"iframe_src", "audio_src", "length", "views", "author", "metadata",
	"open_group", "close_group",
}

// legacyOnlyFields are distinctive of the legacy shape.
var legacyOnlyFields = []string{"pretty_url"}

// decodeResult attempts the ordered structural decode of one raw results
// entry: main shape first, legacy shape second. It reports false when the
// entry matches neither, in which case the caller drops the entry without
// failing the surrounding sequence.
func decodeResult(raw json.RawMessage) (SearchResult, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return SearchResult{}, false
	}
	if main, ok := decodeMainResult(obj); ok {
		return SearchResult{kind: KindMain, main: main}, true
	}
	if legacy, ok := decodeLegacyResult(obj); ok {
		return SearchResult{kind: KindLegacy, legacy: legacy}, true
	}
	return SearchResult{}, false
}

func decodeMainResult(obj map[string]json.RawMessage) (*MainResult, bool) {
	for _, key := range legacyOnlyFields {
		if _, present := obj[key]; present {
			return nil, false
		}
	}
	title := optString(obj, "title")
	u := optString(obj, "url")
	if title == nil && u == nil {
		return nil, false
	}

	r := &MainResult{
		Title:         title,
		URL:           u,
		Content:       optString(obj, "content"),
		Engine:        optString(obj, "engine"),
		Engines:       optStringSlice(obj, "engines"),
		ParsedURL:     optStringSlice(obj, "parsed_url"),
		Template:      optString(obj, "template"),
		ImgSrc:        optString(obj, "img_src"),
		IframeSrc:     optString(obj, "iframe_src"),
		AudioSrc:      optString(obj, "audio_src"),
		Thumbnail:     optString(obj, "thumbnail"),
		PublishedDate: optTime(obj, "publishedDate"),
		Pubdate:       optString(obj, "pubdate"),
		Length:        optString(obj, "length"),
		Views:         optString(obj, "views"),
		Author:        optString(obj, "author"),
		Metadata:      optString(obj, "metadata"),
		Priority:      optString(obj, "priority"),
		OpenGroup:     optBool(obj, "open_group"),
		CloseGroup:    optBool(obj, "close_group"),
		Positions:     optIntSlice(obj, "positions"),
		Score:         optFloat(obj, "score"),
		Category:      optString(obj, "category"),
		Extra:         extraFields(obj, mainFields),
	}
	return r, true
}

func decodeLegacyResult(obj map[string]json.RawMessage) (*LegacyResult, bool) {
	for _, key := range mainOnlyFields {
		if _, present := obj[key]; present {
			return nil, false
		}
	}
	title := optString(obj, "title")
	u := optString(obj, "url")
	pretty := optString(obj, "pretty_url")
	if title == nil && u == nil && pretty == nil {
		return nil, false
	}

	r := &LegacyResult{
		Title:         title,
		URL:           u,
		PrettyURL:     pretty,
		Content:       optString(obj, "content"),
		Engine:        optString(obj, "engine"),
		Engines:       optStringSlice(obj, "engines"),
		ParsedURL:     optStringSlice(obj, "parsed_url"),
		Template:      optString(obj, "template"),
		ImgSrc:        optString(obj, "img_src"),
		Thumbnail:     optString(obj, "thumbnail"),
		PublishedDate: optTime(obj, "publishedDate"),
		Pubdate:       optString(obj, "pubdate"),
		Priority:      optString(obj, "priority"),
		Positions:     optIntSlice(obj, "positions"),
		Score:         optFloat(obj, "score"),
		Category:      optString(obj, "category"),
		Extra:         extraFields(obj, legacyFields),
	}
	return r, true
}

// Optional field extraction. A missing key, a JSON null and a type mismatch
// all decode to nil: only the shape-identifying fields may reject a record,
// every other deviation degrades to absence.

// isJSONNull guards the opt helpers: unmarshalling a JSON null into a
// concrete Go value is a silent no-op, which would make a null field look
// like a reported empty value instead of an absent one.
func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func optString(obj map[string]json.RawMessage, key string) *string {
	raw, ok := obj[key]
	if !ok || isJSONNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func optFloat(obj map[string]json.RawMessage, key string) *float64 {
	raw, ok := obj[key]
	if !ok || isJSONNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func optBool(obj map[string]json.RawMessage, key string) *bool {
	raw, ok := obj[key]
	if !ok || isJSONNull(raw) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}
	return &b
}

func optStringSlice(obj map[string]json.RawMessage, key string) []string {
	raw, ok := obj[key]
	if !ok || isJSONNull(raw) {
		return nil
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}

func optIntSlice(obj map[string]json.RawMessage, key string) []int {
	raw, ok := obj[key]
	if !ok || isJSONNull(raw) {
		return nil
	}
	var s []int
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}

func optTime(obj map[string]json.RawMessage, key string) *time.Time {
	s := optString(obj, key)
	if s == nil {
		return nil
	}
	return parsePublishedDate(*s)
}

func extraFields(obj map[string]json.RawMessage, known map[string]bool) map[string]RawValue {
	var extra map[string]RawValue
	for key, raw := range obj {
		if known[key] {
			continue
		}
		if extra == nil {
			extra = make(map[string]RawValue)
		}
		extra[key] = RawValue{raw: append(json.RawMessage(nil), raw...)}
	}
	return extra
}
