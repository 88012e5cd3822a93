package entity

// Vec2 is a 2D vector. Y grows upward.
type Vec2 struct {
	X, Y float64
}

// ColliderID identifies the other collider in a contact
type ColliderID uint64

// ContactPhase marks the start or end of a collision overlap
type ContactPhase int

const (
	ContactBegin ContactPhase = iota
	ContactEnd
)

// String returns "begin" or "end"
func (p ContactPhase) String() string {
	if p == ContactEnd {
		return "end"
	}
	return "begin"
}

// ContactEvent is emitted by a collider when an overlap starts or ends.
// Normal is the contact normal pointing from the other collider toward the
// character; it is zero when the collider cannot report one.
type ContactEvent struct {
	Phase  ContactPhase
	Other  ColliderID
	Normal Vec2
}
