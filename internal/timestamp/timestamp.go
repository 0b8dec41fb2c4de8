// Package timestamp converts the many date shapes found in stored portal
// records into a single canonical time.Time.
//
// Records written over the years by different clients carry dates as native
// Firestore timestamps, plain {seconds, nanoseconds} maps, ISO strings or
// epoch milliseconds. Normalize accepts all of them and never fails: any value
// it cannot interpret is reported as absent.
package timestamp

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger replaces the logger used to report unrecognized timestamp shapes.
// Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// asTimer is satisfied by *timestamppb.Timestamp, the wire type Firestore uses.
type asTimer interface {
	AsTime() time.Time
}

// toDater is satisfied by client-side timestamp wrappers exposing ToDate.
type toDater interface {
	ToDate() time.Time
}

// layouts tried in order for string values.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts v into a time.Time. The boolean is false when v is nil,
// a zero time, or a shape that cannot be interpreted.
func Normalize(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case asTimer:
		if isNilPointer(t) {
			return time.Time{}, false
		}
		return t.AsTime(), true
	case toDater:
		if isNilPointer(t) {
			return time.Time{}, false
		}
		return t.ToDate(), true
	case map[string]any:
		if ts, ok := fromSecondsMap(t); ok {
			return ts, true
		}
	case string:
		return parseString(t)
	default:
		if ms, ok := toFloat(v); ok {
			return fromMillis(ms)
		}
	}

	logger.Load().Debug("unrecognized timestamp value", zap.String("type", fmt.Sprintf("%T", v)))
	return time.Time{}, false
}

// IsTimestampObject reports whether v is a time-bearing object, as opposed to
// a string or number that only becomes a date when the caller says so.
func IsTimestampObject(v any) bool {
	switch t := v.(type) {
	case time.Time, *time.Time, asTimer, toDater:
		return true
	case map[string]any:
		_, ok := fromSecondsMap(t)
		return ok
	}
	return false
}

// NormalizeFields returns a shallow copy of record with every top-level
// timestamp object replaced by its time.Time equivalent. Strings, numbers and
// nested maps that are not {seconds, nanoseconds} pairs are left untouched.
func NormalizeFields(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		if IsTimestampObject(v) {
			if ts, ok := Normalize(v); ok {
				out[k] = ts
			} else {
				out[k] = nil
			}
			continue
		}
		out[k] = v
	}
	return out
}

func fromSecondsMap(m map[string]any) (time.Time, bool) {
	rawSec, hasSec := m["seconds"]
	if !hasSec {
		return time.Time{}, false
	}
	sec, ok := toFloat(rawSec)
	if !ok {
		return time.Time{}, false
	}
	var nanos float64
	if rawNanos, hasNanos := m["nanoseconds"]; hasNanos {
		if nanos, ok = toFloat(rawNanos); !ok {
			return time.Time{}, false
		}
	} else if len(m) != 1 {
		// A map carrying "seconds" plus unrelated keys is not a timestamp.
		return time.Time{}, false
	}
	return time.Unix(int64(sec), int64(nanos)).UTC(), true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	logger.Load().Debug("unparseable timestamp string", zap.String("value", s))
	return time.Time{}, false
}

// maxEpochMillis bounds epoch-millisecond values to the range a JavaScript
// Date can represent (100,000,000 days either side of the epoch). Anything
// beyond it would overflow the int64 conversion and wrap to a bogus date.
const maxEpochMillis = 8.64e15

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// isNilPointer guards against typed nil pointers hidden in an interface.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
