package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationDefault(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", time.Minute},
		{"30000", 30 * time.Second},
		{"45s", 45 * time.Second},
		{"-5", time.Minute},
		{"soon", time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDurationDefault(tt.in, time.Minute), tt.in)
	}
}

func TestParseBoolDefault(t *testing.T) {
	assert.True(t, ParseBoolDefault("TRUE", false))
	assert.True(t, ParseBoolDefault("1", false))
	assert.False(t, ParseBoolDefault("off", true))
	assert.True(t, ParseBoolDefault("maybe", true))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitCSV(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitCSV(""))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 3001, ParseIntDefault("3001", 8080))
	assert.Equal(t, 8080, ParseIntDefault("x", 8080))
}
