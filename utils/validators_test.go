package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("sarah@example.com"))
	assert.False(t, IsValidEmail("sarah@"))
	assert.False(t, IsValidEmail("not an email"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "sarah@example.com", NormalizeEmail("  Sarah@Example.COM "))
}

func TestParsePace(t *testing.T) {
	tests := []struct {
		pace    string
		want    int
		wantErr bool
	}{
		{"5:30", 330, false},
		{"0:00", 0, false},
		{"12:05", 725, false},
		{"5:60", 0, true},
		{"530", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.pace, func(t *testing.T) {
			got, err := ParsePace(tt.pace)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, IsValidPace(tt.pace))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.pace, FormatPace(got))
		})
	}
}

func TestFormatPace(t *testing.T) {
	assert.Equal(t, "6:05", FormatPace(365))
	assert.Equal(t, "0:00", FormatPace(-5))
}

func TestNormalizeDifficulty(t *testing.T) {
	assert.Equal(t, "very-hard", NormalizeDifficulty("Very Hard"))
	assert.Equal(t, "easy", NormalizeDifficulty(" Easy "))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "technique", NormalizeCategory("Technique"))
	assert.Equal(t, "recovery", NormalizeCategory("Health"))
	assert.Equal(t, "mindset", NormalizeCategory(" Motivation "))
	assert.Equal(t, "all", NormalizeCategory("All"))
	assert.Equal(t, "gear", NormalizeCategory("gear"))
}
