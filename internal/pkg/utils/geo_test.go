package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.InDelta(t, 0, CalculateHaversineDistance(17.385, 78.4867, 17.385, 78.4867), 0.001)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		d := CalculateHaversineDistance(17.0, 78.0, 18.0, 78.0)
		assert.InDelta(t, 111195, d, 50)
	})

	t.Run("is symmetric", func(t *testing.T) {
		a := CalculateHaversineDistance(28.6139, 77.2090, 19.0760, 72.8777)
		b := CalculateHaversineDistance(19.0760, 72.8777, 28.6139, 77.2090)
		assert.InDelta(t, a, b, 0.001)
	})
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{850, "850 m"},
		{999.4, "999 m"},
		{1000, "1.00 km"},
		{1250, "1.25 km"},
		{15780, "15.78 km"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDistance(tt.meters))
		})
	}
}
