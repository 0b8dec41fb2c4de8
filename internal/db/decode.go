package db

import (
	"strconv"
	"strings"
	"time"

	"portal-backend-go/internal/timestamp"
)

// The helpers below read loosely typed stored fields. Records were written by
// several generations of clients, so a field may hold a number, a numeric
// string, or nothing at all.

func getString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		if f, ok := number(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}

// firstString returns the first non-empty string among keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := getString(m, k); s != "" {
			return s
		}
	}
	return ""
}

func getFloat(m map[string]any, key string) (float64, bool) {
	if f, ok := number(m[key]); ok {
		return f, true
	}
	if s, ok := m[key].(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

func getInt64(m map[string]any, key string) int64 {
	f, _ := getFloat(m, key)
	return int64(f)
}

func getStrings(m map[string]any, key string) []string {
	out := []string{}
	switch v := m[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func getTime(m map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		if t, ok := timestamp.Normalize(m[k]); ok {
			return &t
		}
	}
	return nil
}

// record accumulates fields for a write, skipping absent values.
type record map[string]any

func (r record) str(key string, v *string) {
	if v != nil {
		r[key] = *v
	}
}

func (r record) float(key string, v *float64) {
	if v != nil {
		r[key] = *v
	}
}

func (r record) int64(key string, v *int64) {
	if v != nil {
		r[key] = *v
	}
}

func (r record) time(key string, v *time.Time) {
	if v != nil {
		r[key] = v.UTC()
	}
}

func (r record) stampCreated() record {
	r["createdAt"] = ServerTimestamp
	r["updatedAt"] = ServerTimestamp
	return r
}

func (r record) stampUpdated() record {
	r["updatedAt"] = ServerTimestamp
	return r
}
