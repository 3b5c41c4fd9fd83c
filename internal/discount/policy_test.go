package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleRate(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  float64
	}{
		{"zero", 0, 0},
		{"small order", 500, 0},
		{"at threshold", 500_000, 0},
		{"just over threshold", 500_001, 25_000.05},
		{"documented example", 550_000, 27_500},
		{"over a million keeps the same rate", 2_000_000, 100_000},
	}

	p := SingleRate{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.Discount(tt.total), 1e-9)
		})
	}
}

func TestTiered(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  float64
	}{
		{"small order", 400_000, 0},
		{"at lower threshold", 500_000, 0},
		{"mid tier", 550_000, 27_500},
		{"at upper threshold stays mid tier", 1_000_000, 50_000},
		{"upper tier", 1_000_001, 100_000.1},
	}

	p := Tiered{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.Discount(tt.total), 1e-9)
		})
	}
}

func TestDiscountNeverExceedsTotal(t *testing.T) {
	for _, total := range []float64{0, 1, 499_999, 500_001, 999_999, 1_000_001, 10_000_000} {
		assert.LessOrEqual(t, SingleRate{}.Discount(total), total)
		assert.LessOrEqual(t, Tiered{}.Discount(total), total)
	}
}

func TestForName(t *testing.T) {
	assert.IsType(t, Tiered{}, ForName("tiered"))
	assert.IsType(t, SingleRate{}, ForName("single"))
	assert.IsType(t, SingleRate{}, ForName(""))
}
