package searxng

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// RawValue preserves a JSON subtree whose shape varies per engine and is not
// worth modelling field by field (infobox urls/attributes, engine-specific
// extra result fields). It keeps the raw bytes and exposes path traversal via
// gjson so callers can still reach nested data the typed model does not name.
type RawValue struct {
	raw json.RawMessage
}

// Exists reports whether the value holds any JSON at all. A JSON null counts
// as existing; only a field that was never present is absent.
func (v RawValue) Exists() bool {
	return len(v.raw) > 0
}

// Raw returns the underlying JSON bytes, or nil when absent.
func (v RawValue) Raw() json.RawMessage {
	return v.raw
}

// Get traverses the value with a gjson path expression, e.g.
// "attributes.#(label==\"Born\").value" or "urls.0.url".
func (v RawValue) Get(path string) gjson.Result {
	return gjson.GetBytes(v.raw, path)
}

// Value parses the whole subtree into a gjson result.
func (v RawValue) Value() gjson.Result {
	return gjson.ParseBytes(v.raw)
}

func (v RawValue) String() string {
	return string(v.raw)
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}
