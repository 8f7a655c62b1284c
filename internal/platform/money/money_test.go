package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		major float64
		minor int64
	}{
		{0, 0},
		{9.99, 999},
		{19.994, 1999},
		{0.1 + 0.2, 30},
		{1234.5, 123450},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.minor, ToMinor(tt.major), "ToMinor(%v)", tt.major)
	}
}

func TestToMajor(t *testing.T) {
	assert.Equal(t, 9.99, ToMajor(999))
	assert.Equal(t, 0.0, ToMajor(0))
	assert.Equal(t, 12.5, ToMajor(1250))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.0, Round2(9.999))
	assert.Equal(t, 3.14, Round2(3.14159))
}
