package searxng

import (
	"encoding/json"
)

// SearchResponse is the normalized form of one SearXNG response envelope.
type SearchResponse struct {
	// Query is the query string as echoed by the instance.
	Query string `json:"query"`
	// NumberOfResults is the instance's estimate across all engines. Many
	// instances report 0 here even when results are present.
	NumberOfResults int64 `json:"number_of_results"`
	// Results holds the normalized records in input order.
	Results []SearchResult `json:"results"`
	// SkippedResults counts raw entries that matched neither known result
	// shape and were dropped. Skipping is local to a record; it never fails
	// the call.
	SkippedResults int `json:"skipped_results,omitempty"`
	// Answers holds instant answers from specialised engines.
	Answers []Answer `json:"answers,omitempty"`
	// Corrections holds suggested query corrections.
	Corrections []string `json:"corrections,omitempty"`
	// Suggestions holds related-query suggestions.
	Suggestions []string `json:"suggestions,omitempty"`
	// Infoboxes holds structured information boxes.
	Infoboxes []Infobox `json:"infoboxes,omitempty"`
	// UnresponsiveEngines lists engines that failed to respond.
	UnresponsiveEngines []EngineError `json:"unresponsive_engines,omitempty"`
}

// Answer is an instant answer. Older instances emit bare strings, current
// ones emit objects; both decode into this type.
type Answer struct {
	Text   string `json:"answer"`
	URL    string `json:"url,omitempty"`
	Engine string `json:"engine,omitempty"`
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Text = s
		return nil
	}
	var obj struct {
		Answer string `json:"answer"`
		URL    string `json:"url"`
		Engine string `json:"engine"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Tolerated: an answer of unknown shape normalizes to empty.
		return nil
	}
	a.Text = obj.Answer
	a.URL = obj.URL
	a.Engine = obj.Engine
	return nil
}

// Infobox is a structured information box. The urls and attributes subtrees
// vary per engine and are preserved as opaque values.
type Infobox struct {
	Infobox    string   `json:"infobox"`
	ID         string   `json:"id,omitempty"`
	Content    string   `json:"content,omitempty"`
	Engine     string   `json:"engine,omitempty"`
	URL        string   `json:"url,omitempty"`
	ImgSrc     string   `json:"img_src,omitempty"`
	Attributes RawValue `json:"attributes,omitempty"`
	URLs       RawValue `json:"urls,omitempty"`
}

// EngineError identifies an engine that failed to respond. The wire format is
// a two-element array ["engine", "message"]; some instances emit an object
// instead, and both forms are accepted.
type EngineError struct {
	Engine  string `json:"engine"`
	Message string `json:"error"`
}

func (e *EngineError) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) > 0 {
			e.Engine = pair[0]
		}
		if len(pair) > 1 {
			e.Message = pair[1]
		}
		return nil
	}
	var obj struct {
		Name   string `json:"name"`
		Engine string `json:"engine"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	e.Engine = obj.Engine
	if e.Engine == "" {
		e.Engine = obj.Name
	}
	e.Message = obj.Error
	return nil
}

// ParseResponse normalizes one raw response body. It fails with
// *MalformedResponseError only when the top-level shape is unusable; every
// per-record deviation degrades to optional gaps or a skipped entry.
// Normalization is pure: input order is preserved and nothing is deduplicated
// or re-ranked.
func ParseResponse(data []byte) (*SearchResponse, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &MalformedResponseError{Reason: "body is not a JSON object"}
	}
	rawResults, ok := envelope["results"]
	if !ok {
		return nil, &MalformedResponseError{Reason: `missing "results" field`}
	}
	// A null results value is not array-shaped; it must not pass as an empty
	// result set (unmarshalling null into a slice is a silent no-op).
	if isJSONNull(rawResults) {
		return nil, &MalformedResponseError{Reason: `"results" field is not an array`}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawResults, &entries); err != nil {
		return nil, &MalformedResponseError{Reason: `"results" field is not an array`}
	}

	resp := &SearchResponse{Results: make([]SearchResult, 0, len(entries))}
	for _, entry := range entries {
		record, ok := decodeResult(entry)
		if !ok {
			resp.SkippedResults++
			continue
		}
		resp.Results = append(resp.Results, record)
	}

	// The remaining envelope fields are best-effort: a missing or retyped
	// field leaves its zero value.
	if s := optString(envelope, "query"); s != nil {
		resp.Query = *s
	}
	if f := optFloat(envelope, "number_of_results"); f != nil {
		resp.NumberOfResults = int64(*f)
	}
	decodeLoose(envelope, "answers", &resp.Answers)
	decodeLoose(envelope, "corrections", &resp.Corrections)
	decodeLoose(envelope, "suggestions", &resp.Suggestions)
	decodeInfoboxes(envelope, &resp.Infoboxes)
	decodeLoose(envelope, "unresponsive_engines", &resp.UnresponsiveEngines)
	return resp, nil
}

// decodeInfoboxes decodes the infoboxes field element-wise: one malformed
// infobox is dropped without discarding the rest, the same locality the
// results array gets.
func decodeInfoboxes(envelope map[string]json.RawMessage, dst *[]Infobox) {
	raw, ok := envelope["infoboxes"]
	if !ok {
		return
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return
	}
	for _, entry := range entries {
		var box Infobox
		if err := json.Unmarshal(entry, &box); err != nil {
			continue
		}
		*dst = append(*dst, box)
	}
}

// decodeLoose unmarshals an optional envelope field, ignoring absence and
// type mismatches.
func decodeLoose(envelope map[string]json.RawMessage, key string, dst any) {
	raw, ok := envelope[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	parsed, err := ParseResponse(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}
