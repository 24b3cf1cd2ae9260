package speed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMetric(t *testing.T) {
	tests := []struct {
		raw  string
		want Metric
		ok   bool
	}{
		{"wpm", WPM, true},
		{" CPS ", CPS, true},
		{"Cpm", CPM, true},
		{"", "", false},
		{"kph", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeMetric(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestMetricNextCycles(t *testing.T) {
	assert.Equal(t, CPS, WPM.Next())
	assert.Equal(t, CPM, CPS.Next())
	assert.Equal(t, WPM, CPM.Next())
	assert.Equal(t, WPM, Metric("x").Next())
}

func TestMetricLabels(t *testing.T) {
	assert.Equal(t, "WPM", WPM.Label())
	assert.Equal(t, "CPS", CPS.Label())
	assert.Equal(t, "CPM", CPM.Label())
	assert.Equal(t, "Characters per second", CPS.Description())
}

func TestIsQualifying(t *testing.T) {
	tests := []struct {
		name string
		key  string
		mods Modifiers
		want bool
	}{
		{"letter", "a", Modifiers{}, true},
		{"space", " ", Modifiers{}, true},
		{"punct", "?", Modifiers{}, true},
		{"unicode", "ж", Modifiers{}, true},
		{"wide", "字", Modifiers{}, true},
		{"ctrl", "c", Modifiers{Ctrl: true}, false},
		{"alt", "b", Modifiers{Alt: true}, false},
		{"meta", "v", Modifiers{Meta: true}, false},
		{"named", "enter", Modifiers{}, false},
		{"empty", "", Modifiers{}, false},
		{"control char", "\t", Modifiers{}, false},
		{"combining", "\u0301", Modifiers{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQualifying(tt.key, tt.mods))
		})
	}
}
