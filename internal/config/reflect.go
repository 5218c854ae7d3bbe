package config

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/haulops/haulctl/internal/util"
)

// Field is metadata about one config key, read from struct tags.
type Field struct {
	Key      string // e.g. "api.base_url"
	Default  string
	Desc     string
	Min      int   // 0 = no limit
	Max      int   // 0 = no limit
	Options  []int // allowed values, nil = any in range
	Type     string
	Category string
	Secret   bool // masked by `config --list`
}

var fieldCache []Field

func fields() []Field {
	if fieldCache != nil {
		return fieldCache
	}

	var out []Field
	extractFields(reflect.TypeOf(Config{}), &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	fieldCache = out
	return out
}

func extractFields(t reflect.Type, out *[]Field) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		key := sf.Tag.Get("config")
		if key == "" {
			if sf.Type.Kind() == reflect.Struct {
				extractFields(sf.Type, out)
			}
			continue
		}

		f := Field{
			Key:      key,
			Default:  sf.Tag.Get("default"),
			Desc:     sf.Tag.Get("desc"),
			Category: strings.Split(key, ".")[0],
			Secret:   sf.Tag.Get("secret") == "true",
		}
		if s := sf.Tag.Get("min"); s != "" {
			f.Min, _ = strconv.Atoi(s)
		}
		if s := sf.Tag.Get("max"); s != "" {
			f.Max, _ = strconv.Atoi(s)
		}
		if s := sf.Tag.Get("options"); s != "" {
			for _, o := range strings.Split(s, ",") {
				n, _ := strconv.Atoi(strings.TrimSpace(o))
				f.Options = append(f.Options, n)
			}
		}
		switch sf.Type.Kind() {
		case reflect.Int:
			f.Type = "int"
		case reflect.Bool:
			f.Type = "bool"
		default:
			f.Type = "string"
		}

		*out = append(*out, f)
	}
}

// Lookup returns the metadata for key.
func Lookup(key string) (Field, bool) {
	key = normalizeKey(key)
	for _, f := range fields() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns every config key, sorted.
func Keys() []string {
	fs := fields()
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.Key
	}
	return keys
}

// FieldsByCategory groups fields by their key prefix.
func FieldsByCategory() map[string][]Field {
	out := make(map[string][]Field)
	for _, f := range fields() {
		out[f.Category] = append(out[f.Category], f)
	}
	return out
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	aliases := map[string]string{
		"api.url":       "api.base_url",
		"api.timeout":   "api.timeout_seconds",
		"view.rows":     "view.rows_per_page",
		"poll.interval": "poll.interval_seconds",
	}
	if n, ok := aliases[key]; ok {
		return n
	}
	return key
}

// fieldValue walks to the struct field tagged with key.
func fieldValue(cfg *Config, key string) (reflect.Value, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	var section reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == parts[0] {
			section = v.Field(i)
			break
		}
	}
	if !section.IsValid() || section.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	st := section.Type()
	for i := 0; i < st.NumField(); i++ {
		if st.Field(i).Tag.Get("config") == key {
			return section.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func getFieldValue(cfg *Config, key string) (string, bool) {
	fv, ok := fieldValue(cfg, normalizeKey(key))
	if !ok {
		return "", false
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), true
	case reflect.Int:
		return strconv.FormatInt(fv.Int(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), true
	}
	return "", false
}

func setFieldValue(cfg *Config, key, value string) error {
	key = normalizeKey(key)
	field, ok := Lookup(key)
	if !ok {
		return util.UnknownConfigKeyError(key, Keys())
	}

	fv, ok := fieldValue(cfg, key)
	if !ok {
		return fmt.Errorf("field not found: %s", key)
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(value)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s (use true or false)", value)
		}
		fv.SetBool(b)
		return nil

	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if err := field.checkInt(n); err != nil {
			return err
		}
		fv.SetInt(int64(n))
		return nil
	}

	return fmt.Errorf("unsupported type for %s", key)
}

// checkInt enforces the min, max and options tags.
func (f Field) checkInt(n int) error {
	if len(f.Options) > 0 {
		if !slices.Contains(f.Options, n) {
			opts := make([]string, len(f.Options))
			for i, o := range f.Options {
				opts[i] = strconv.Itoa(o)
			}
			return fmt.Errorf("%s must be one of %s", f.Key, strings.Join(opts, ", "))
		}
		return nil
	}
	if f.Min != 0 && n < f.Min {
		return fmt.Errorf("%s: value %d is below minimum %d", f.Key, n, f.Min)
	}
	if f.Max != 0 && n > f.Max {
		return fmt.Errorf("%s: value %d exceeds maximum %d", f.Key, n, f.Max)
	}
	return nil
}

// validate resets integer values outside their allowed range to the
// default and returns one warning per reset key.
func (c *Config) validate() []string {
	var warnings []string
	for _, f := range fields() {
		if f.Type != "int" {
			continue
		}
		fv, ok := fieldValue(c, f.Key)
		if !ok {
			continue
		}
		if err := f.checkInt(int(fv.Int())); err != nil {
			def, _ := strconv.Atoi(f.Default)
			fv.SetInt(int64(def))
			warnings = append(warnings, fmt.Sprintf("%v; using %s", err, f.Default))
		}
	}
	return warnings
}

// HelpText renders the keys grouped by category for `haulctl config --help`.
func HelpText() string {
	var sb strings.Builder

	byCategory := FieldsByCategory()
	categories := []struct {
		key   string
		title string
	}{
		{"api", "Backend"},
		{"view", "List view"},
		{"poll", "Polling"},
		{"export", "Export"},
		{"archive", "Export archive (S3-compatible)"},
		{"mirror", "Reporting mirror"},
		{"log", "Logging"},
	}

	for _, cat := range categories {
		fs := byCategory[cat.key]
		if len(fs) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s:\n", cat.title))
		for _, f := range fs {
			def := ""
			if f.Default != "" {
				def = fmt.Sprintf(" (default: %s)", f.Default)
			}
			sb.WriteString(fmt.Sprintf("    %-24s %s%s\n", f.Key, f.Desc, def))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
