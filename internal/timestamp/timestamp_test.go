package timestamp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type clientTimestamp struct{ t time.Time }

func (c clientTimestamp) ToDate() time.Time { return c.t }

func TestNormalize(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))
	defer SetLogger(nil)

	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"time value", want, true},
		{"time pointer", &want, true},
		{"protobuf timestamp", timestamppb.New(want), true},
		{"client wrapper", clientTimestamp{t: want}, true},
		{"seconds map", map[string]any{"seconds": int64(1700000000), "nanoseconds": 0}, true},
		{"seconds map float", map[string]any{"seconds": 1700000000.0, "nanoseconds": 0.0}, true},
		{"seconds only", map[string]any{"seconds": 1700000000}, true},
		{"rfc3339", "2023-11-14T22:13:20Z", true},
		{"rfc3339 millis", "2023-11-14T22:13:20.000Z", true},
		{"epoch millis int", int64(1700000000000), true},
		{"epoch millis float", float64(1700000000000), true},
		{"epoch millis json number", json.Number("1700000000000"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestNormalize_Absent(t *testing.T) {
	var nilTime *time.Time
	var nilProto *timestamppb.Timestamp

	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"zero time", time.Time{}},
		{"nil time pointer", nilTime},
		{"nil protobuf", nilProto},
		{"garbage string", "not-a-date"},
		{"empty string", ""},
		{"bool", true},
		{"slice", []string{"a"}},
		{"map without seconds", map[string]any{"foo": 1}},
		{"map with junk seconds", map[string]any{"seconds": "soon", "nanoseconds": 0}},
		{"map with extra keys", map[string]any{"seconds": 1, "label": "x"}},
		{"millis beyond date range", 1e20},
		{"negative millis beyond date range", -8.64e15 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				got, ok := Normalize(tt.in)
				assert.False(t, ok)
				assert.True(t, got.IsZero())
			})
		})
	}
}

func TestNormalize_DateOnlyString(t *testing.T) {
	got, ok := Normalize("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeFields(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	record := map[string]any{
		"name":      "Website redesign",
		"createdAt": timestamppb.New(created),
		"updatedAt": map[string]any{"seconds": created.Unix(), "nanoseconds": 0},
		"due_date":  "2024-02-01",
		"budget":    1500.0,
		"meta":      map[string]any{"seconds": created.Unix(), "owner": "x"},
	}

	out := NormalizeFields(record)

	assert.Equal(t, created, out["createdAt"])
	assert.Equal(t, created, out["updatedAt"])
	assert.Equal(t, "2024-02-01", out["due_date"], "strings stay strings")
	assert.Equal(t, 1500.0, out["budget"], "numbers stay numbers")
	assert.IsType(t, map[string]any{}, out["meta"])
	assert.IsType(t, &timestamppb.Timestamp{}, record["createdAt"], "input is not mutated")
}

func TestNormalizeFields_Nil(t *testing.T) {
	assert.Nil(t, NormalizeFields(nil))
}
