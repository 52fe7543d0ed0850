package demo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimate_KnownDigests(t *testing.T) {
	tests := []struct {
		data string
		want float64
	}{
		{"", 4.36},
		{"hello", 3.58},
		{"banana", 3.92},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			require.Equal(t, tt.want, Estimate([]byte(tt.data)))
		})
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	first := Estimate(data)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Estimate(append([]byte(nil), data...)))
	}
}

func TestEstimate_RangeAndPrecision(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		buf := make([]byte, rnd.Intn(256))
		rnd.Read(buf)

		v := Estimate(buf)
		require.GreaterOrEqual(t, v, 2.5)
		require.LessOrEqual(t, v, 4.48)
		require.InDelta(t, v, float64(int(v*100+0.5))/100, 1e-9)
	}
}

func TestPredictor_Predict(t *testing.T) {
	res := NewPredictor().Predict([]byte("hello"))

	require.True(t, res.DemoMode)
	require.Equal(t, "success", res.Status)
	require.Equal(t, 3.58, res.DaysRemaining)
	require.Equal(t, Message, res.Message)
}
