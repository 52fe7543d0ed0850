package shelflife

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDays(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 3.14159, 3.14},
		{"rounds half up", 2.005001, 2.01},
		{"negative", -1.7, 0},
		{"too large", 12.3, 5},
		{"upper bound", 5, 5},
		{"lower bound", 0, 0},
		{"positive infinity", math.Inf(1), 5},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Days(tt.in))
		})
	}
}
