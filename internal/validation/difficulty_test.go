package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"5", 5, true},
		{"1", 1, true},
		{"10", 10, true},
		{" 7 ", 7, true},
		{"7 please", 7, true},
		{"3.5", 3, true},
		{"+4", 4, true},
		{"0", 0, false},
		{"11", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"level 5", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDifficulty(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficultyBand(t *testing.T) {
	assert.Equal(t, "junior", DifficultyBand(1))
	assert.Equal(t, "junior", DifficultyBand(3))
	assert.Equal(t, "mid", DifficultyBand(4))
	assert.Equal(t, "mid", DifficultyBand(6))
	assert.Equal(t, "senior", DifficultyBand(7))
	assert.Equal(t, "senior", DifficultyBand(10))
}
