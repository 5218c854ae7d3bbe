package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/haulops/haulctl/internal/util"
)

// Record is one backend entity exactly as delivered. Values are strings,
// json.Number, bool, nil, nested Records/maps or slices.
type Record map[string]any

// Lookup resolves a dotted path ("customer.name") through nested objects.
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Text renders the value at path for display and export. Missing values
// and nulls render as "".
func (r Record) Text(path string) string {
	v, ok := r.Lookup(path)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// ID returns the record's identifier for the given resource.
func (r Record) ID(res Resource) string {
	return r.Text(res.IDField)
}

// Clone deep-copies the record so forms can edit without touching the
// loaded collection.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Set assigns a value at a dotted path, creating intermediate objects.
func (r Record) Set(path string, value any) {
	parts := strings.Split(path, ".")
	cur := map[string]any(r)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// FormatValue converts a decoded JSON value to display text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return util.ToValidUTF8(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Record:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return val
	}
}
