package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrounding_String(t *testing.T) {
	tests := []struct {
		state    Grounding
		expected string
	}{
		{Grounded, "Grounded"},
		{AirborneCoyote, "AirborneCoyote"},
		{AirborneExpired, "AirborneExpired"},
		{Grounding(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		name     string
		grounded bool
		timer    float64
		want     Grounding
		canJump  bool
	}{
		{"grounded ignores timer", true, 0.05, Grounded, true},
		{"grounded with zero timer", true, 0, Grounded, true},
		{"airborne inside window", false, 0.01, AirborneCoyote, true},
		{"airborne expired", false, 0, AirborneExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Of(tt.grounded, tt.timer)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.canJump, got.CanJump())
		})
	}
}
