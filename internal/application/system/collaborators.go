package system

import "github.com/younwookim/coyote/internal/domain/entity"

// Body is the rigid body whose velocity the controller drives.
// The controller only ever replaces the whole vector.
type Body interface {
	Velocity() entity.Vec2
	SetVelocity(v entity.Vec2)
}

// Collider reports contact begin/end events for the character's shape
type Collider interface {
	SubscribeContacts(fn func(entity.ContactEvent)) entity.Subscription
}

// InputSource reports logical key edges
type InputSource interface {
	SubscribeKeys(fn func(entity.KeyEvent)) entity.Subscription
}

// FacingHook receives facing changes for the presentation layer
type FacingHook interface {
	FacingChanged(dir entity.Direction)
}

// FacingFunc adapts a function to FacingHook
type FacingFunc func(dir entity.Direction)

// FacingChanged calls f
func (f FacingFunc) FacingChanged(dir entity.Direction) { f(dir) }

// ItemHook is invoked on the action key
type ItemHook interface {
	UseItem()
}

// ItemFunc adapts a function to ItemHook
type ItemFunc func()

// UseItem calls f
func (f ItemFunc) UseItem() { f() }

// TimeTravelHook is invoked on the time-travel key
type TimeTravelHook interface {
	TryTimeTravel()
}

// TimeTravelFunc adapts a function to TimeTravelHook
type TimeTravelFunc func()

// TryTimeTravel calls f
func (f TimeTravelFunc) TryTimeTravel() { f() }

// Collaborators are the controller's external dependencies. Every field is
// optional: a missing Body turns movement and jumping into no-ops, a missing
// Collider or Input skips that subscription, missing hooks are ignored.
type Collaborators struct {
	Body       Body
	Collider   Collider
	Input      InputSource
	Facing     FacingHook
	Item       ItemHook
	TimeTravel TimeTravelHook
}
