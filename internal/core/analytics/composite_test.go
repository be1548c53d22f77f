package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		completed    int
		total        int
		wantStatus   domain.CompletionStatus
		wantFraction float64
	}{
		{"All done", 4, 4, domain.StatusComplete, 1},
		{"Half done", 2, 4, domain.StatusPartial, 0.5},
		{"One of three", 1, 3, domain.StatusPartial, 1.0 / 3.0},
		{"None done", 0, 4, domain.StatusIncomplete, 0},
		{"Zero total is incomplete, not an error", 0, 0, domain.StatusIncomplete, 0},
		{"Zero total with stray count", 2, 0, domain.StatusIncomplete, 0},
		{"Overcount clamps to complete", 5, 4, domain.StatusComplete, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.completed, tt.total)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.InDelta(t, tt.wantFraction, got.Fraction, 1e-9)
		})
	}
}

func TestResolveParts(t *testing.T) {
	defined := []string{"stretch", "meditate", "journal", "plan"}

	t.Run("Counts only defined parts", func(t *testing.T) {
		got := ResolveParts(map[string]bool{
			"stretch": true,
			"journal": true,
			"stale":   true, // removed subtask must not inflate the score
		}, defined)
		assert.Equal(t, domain.StatusPartial, got.Status)
		assert.InDelta(t, 0.5, got.Fraction, 1e-9)
	})

	t.Run("Nil set is incomplete", func(t *testing.T) {
		got := ResolveParts(nil, defined)
		assert.Equal(t, domain.StatusIncomplete, got.Status)
	})

	t.Run("No defined parts is incomplete", func(t *testing.T) {
		got := ResolveParts(map[string]bool{"x": true}, nil)
		assert.Equal(t, domain.StatusIncomplete, got.Status)
		assert.Zero(t, got.Fraction)
	})
}

func TestReduceToCompletion(t *testing.T) {
	defined := []string{"a", "b"}
	parts := domain.PartsMap{
		"2024-06-01": {"a": true, "b": true},
		"2024-06-02": {"a": true},
		"2024-06-03": {},
	}

	reduced := ReduceToCompletion(parts, defined)

	assert.True(t, reduced["2024-06-01"])
	assert.False(t, reduced["2024-06-02"])
	assert.False(t, reduced["2024-06-03"])

	// The reduction feeds the shared streak calculator directly.
	got := Streaks(reduced, domain.DayKey("2024-06-01"))
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 1, got.Longest)
}
