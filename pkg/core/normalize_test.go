package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	ts := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	in := map[string]any{
		"name":    "scratchpad",
		"count":   int64(3),
		"ratio":   float32(0.5),
		"created": ts,
		"nested": map[any]any{
			1:     "one",
			"two": []any{uint64(2), []byte("raw")},
		},
	}

	got := Normalize(in)

	want := map[string]any{
		"name":    "scratchpad",
		"count":   3,
		"ratio":   0.5,
		"created": "2025-10-01T12:00:00Z",
		"nested": map[string]any{
			"1":   "one",
			"two": []any{2, "raw"},
		},
	}
	assert.Equal(t, want, got)
}

func TestNormalizeScalars(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, true, Normalize(true))
	assert.Equal(t, "x", Normalize("x"))
	assert.Equal(t, 7, Normalize(int32(7)))
}
