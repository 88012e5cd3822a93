// Package state names the grounding states of the character controller.
package state

// Grounding is the controller's position in the grounding state machine.
// It is derived from the grounded flag and the coyote timer, never stored.
type Grounding int

const (
	Grounded Grounding = iota
	AirborneCoyote
	AirborneExpired
)

// Of derives the grounding state
func Of(grounded bool, coyoteTimer float64) Grounding {
	switch {
	case grounded:
		return Grounded
	case coyoteTimer > 0:
		return AirborneCoyote
	default:
		return AirborneExpired
	}
}

// CanJump reports whether a jump is permitted in this state
func (g Grounding) CanJump() bool {
	return g == Grounded || g == AirborneCoyote
}

// String returns the string representation of the grounding state
func (g Grounding) String() string {
	switch g {
	case Grounded:
		return "Grounded"
	case AirborneCoyote:
		return "AirborneCoyote"
	case AirborneExpired:
		return "AirborneExpired"
	default:
		return "Unknown"
	}
}
