package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/coyote/internal/domain/entity"
)

// Character is a dynamic, non-rotating box. It is the controller's Body and
// Collider.
type Character struct {
	world  *World
	body   *cp.Body
	shape  *cp.Shape
	width  float64
	height float64

	contacts entity.Listeners[entity.ContactEvent]
	removed  bool
}

// AddCharacter creates a character whose top-left corner sits at the given
// stage pixel position.
func (w *World) AddCharacter(px, py, width, height float64) *Character {
	body := cp.NewBody(1, math.Inf(1))
	center := w.ToWorld(px+width/2, py+height/2)
	body.SetPosition(center)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(w.cfg.Friction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeCharacter)

	w.space.AddBody(body)
	w.space.AddShape(shape)

	ch := &Character{
		world:  w,
		body:   body,
		shape:  shape,
		width:  width,
		height: height,
	}
	w.characters[shape] = ch

	return ch
}

// Velocity returns the body's linear velocity
func (c *Character) Velocity() entity.Vec2 {
	v := c.body.Velocity()
	return entity.Vec2{X: v.X, Y: v.Y}
}

// SetVelocity replaces the body's linear velocity
func (c *Character) SetVelocity(v entity.Vec2) {
	c.body.SetVelocity(v.X, v.Y)
}

// SubscribeContacts registers fn for begin/end events of this character
func (c *Character) SubscribeContacts(fn func(entity.ContactEvent)) entity.Subscription {
	return c.contacts.Add(fn)
}

// Position returns the top-left corner in stage pixels
func (c *Character) Position() (float64, float64) {
	x, y := c.world.ToStage(c.body.Position())
	return x - c.width/2, y - c.height/2
}

// SetPosition moves the character's top-left corner to a stage pixel
// position and stops it.
func (c *Character) SetPosition(px, py float64) {
	c.body.SetPosition(c.world.ToWorld(px+c.width/2, py+c.height/2))
	c.body.SetVelocity(0, 0)
}

// Size returns the collider size in pixels
func (c *Character) Size() (float64, float64) {
	return c.width, c.height
}

// Remove drops every contact subscriber and takes the character out of the
// space. Must not be called from inside World.Step.
func (c *Character) Remove() {
	if c.removed {
		return
	}
	c.removed = true

	// Removing shapes fires separate callbacks; nobody may hear them.
	c.contacts.Clear()

	delete(c.world.characters, c.shape)
	c.world.space.RemoveShape(c.shape)
	c.world.space.RemoveBody(c.body)
}

func (c *Character) emit(ev entity.ContactEvent) {
	if c.removed {
		return
	}
	c.contacts.Emit(ev)
}
