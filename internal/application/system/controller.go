package system

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/younwookim/coyote/internal/application/state"
	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
	"github.com/younwookim/coyote/pkg/logger"
)

// Controller turns key edges, contact events and frame deltas into velocity
// commands for a platformer character.
//
// All entry points must be called from the host's single update goroutine;
// the controller does no locking.
type Controller struct {
	cfg config.MovementConfig

	body       Body
	facingHook FacingHook
	item       ItemHook
	timeTravel TimeTravelHook

	subs     []entity.Subscription
	attached bool

	// Input tracker
	horizontal entity.Direction
	facing     entity.Direction
	heldLeft   bool
	heldRight  bool
	jumpHeld   bool

	// Grounding
	grounded    bool
	coyoteTimer float64
	contacts    map[entity.ColliderID]struct{}

	log *logrus.Entry
}

// AttachController validates cfg, creates a controller with zeroed state and
// subscribes it to the collider and input source when they are present.
func AttachController(cfg config.MovementConfig, c Collaborators) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("attach controller: %w", err)
	}

	ctrl := &Controller{
		cfg:        cfg,
		body:       c.Body,
		facingHook: c.Facing,
		item:       c.Item,
		timeTravel: c.TimeTravel,
		facing:     entity.DirRight,
		contacts:   make(map[entity.ColliderID]struct{}),
		log:        logger.For("controller"),
	}

	if c.Collider != nil {
		ctrl.subs = append(ctrl.subs, c.Collider.SubscribeContacts(ctrl.HandleContact))
	}
	if c.Input != nil {
		ctrl.subs = append(ctrl.subs, c.Input.SubscribeKeys(ctrl.HandleKey))
	}
	ctrl.attached = true

	ctrl.log.WithFields(logrus.Fields{
		"moveSpeed":  cfg.MoveSpeed,
		"jumpForce":  cfg.JumpForce,
		"coyoteTime": cfg.CoyoteTime,
		"grounding":  cfg.Grounding,
		"body":       c.Body != nil,
		"collider":   c.Collider != nil,
	}).Debug("controller attached")

	return ctrl, nil
}

// Detach removes every subscription. Events that still reach the controller
// afterwards are ignored. Calling Detach twice is harmless.
func (c *Controller) Detach() {
	if !c.attached {
		return
	}
	c.attached = false

	for _, sub := range c.subs {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	c.subs = nil

	c.log.Debug("controller detached")
}

// Attached reports whether the controller still accepts events
func (c *Controller) Attached() bool {
	return c.attached
}

// Update runs one frame: coyote timer decay, then the motion override.
func (c *Controller) Update(dt float64) {
	if !c.attached {
		return
	}

	c.decayCoyote(dt)
	c.applyMovement()
}

// HandleKey routes a logical key edge
func (c *Controller) HandleKey(ev entity.KeyEvent) {
	if !c.attached {
		return
	}

	switch ev.Key {
	case entity.KeyMoveLeft, entity.KeyMoveRight:
		dir := entity.DirectionOf(ev.Key)
		if ev.Down {
			c.DirectionDown(dir)
		} else {
			c.DirectionUp(dir)
		}
	case entity.KeyJump:
		if ev.Down {
			c.JumpDown()
		} else {
			c.JumpUp()
		}
	case entity.KeyAction:
		if ev.Down {
			c.ActionDown()
		}
	case entity.KeyTimeTravel:
		if ev.Down {
			c.TimeTravelDown()
		}
	}
}

// DirectionDown makes dir the driving direction and faces it
func (c *Controller) DirectionDown(dir entity.Direction) {
	if !c.attached || dir == entity.DirNone {
		return
	}

	c.setHeld(dir, true)
	c.horizontal = dir
	c.setFacing(dir)
}

// DirectionUp releases dir. Releasing a key that is not driving movement
// changes nothing; releasing the driving key hands control back to the
// opposite key if it is still held.
func (c *Controller) DirectionUp(dir entity.Direction) {
	if !c.attached || dir == entity.DirNone {
		return
	}

	c.setHeld(dir, false)
	if c.horizontal != dir {
		return
	}

	opposite := -dir
	if c.isHeld(opposite) {
		c.horizontal = opposite
	} else {
		c.horizontal = entity.DirNone
	}
}

// JumpDown attempts one jump per press
func (c *Controller) JumpDown() {
	if !c.attached || c.jumpHeld {
		return
	}
	c.jumpHeld = true
	c.TryJump()
}

// JumpUp re-arms the jump key
func (c *Controller) JumpUp() {
	c.jumpHeld = false
}

// ActionDown invokes the item hook
func (c *Controller) ActionDown() {
	if !c.attached || c.item == nil {
		return
	}
	c.item.UseItem()
}

// TimeTravelDown invokes the time-travel hook
func (c *Controller) TimeTravelDown() {
	if !c.attached || c.timeTravel == nil {
		return
	}
	c.timeTravel.TryTimeTravel()
}

// TryJump launches the character if it is grounded or inside the coyote
// window. A refused jump is not an error; it reports false and changes
// nothing.
func (c *Controller) TryJump() bool {
	if !c.attached || c.body == nil || !c.CanJump() {
		return false
	}

	v := c.body.Velocity()
	c.body.SetVelocity(entity.Vec2{X: v.X, Y: c.cfg.JumpForce})

	fromCoyote := !c.grounded
	// Consume the window so a second press before the next contact pair
	// cannot jump again.
	c.coyoteTimer = 0
	c.grounded = false

	c.log.WithFields(logrus.Fields{
		"vx":     v.X,
		"vy":     c.cfg.JumpForce,
		"coyote": fromCoyote,
	}).Debug("jump")

	return true
}

// HandleContact applies a collider contact event
func (c *Controller) HandleContact(ev entity.ContactEvent) {
	if !c.attached {
		return
	}

	switch ev.Phase {
	case entity.ContactBegin:
		c.contactBegin(ev)
	case entity.ContactEnd:
		c.contactEnd(ev)
	}
}

func (c *Controller) contactBegin(ev entity.ContactEvent) {
	if !c.countsAsGround(ev) {
		return
	}

	c.contacts[ev.Other] = struct{}{}
	c.grounded = true
	c.coyoteTimer = 0
}

// contactEnd un-grounds the character only when its last ground contact ends,
// so it stays grounded while any ground contact remains. Ends for colliders
// that never counted as ground are ignored.
func (c *Controller) contactEnd(ev entity.ContactEvent) {
	if _, ok := c.contacts[ev.Other]; !ok {
		// never counted as ground
		return
	}
	delete(c.contacts, ev.Other)
	if len(c.contacts) > 0 {
		return
	}

	c.grounded = false

	vy := 0.0
	if c.body != nil {
		vy = c.body.Velocity().Y
	}

	// only walking off an edge opens the window
	if vy <= 0 {
		c.coyoteTimer = c.cfg.CoyoteTime
	} else {
		c.coyoteTimer = 0
	}

	c.log.WithFields(logrus.Fields{
		"vy":     vy,
		"coyote": c.coyoteTimer,
	}).Debug("left ground")
}

func (c *Controller) countsAsGround(ev entity.ContactEvent) bool {
	if c.cfg.Grounding != config.GroundSurfaceNormal {
		return true
	}
	return ev.Normal.Y >= c.cfg.MinGroundNormalY
}

func (c *Controller) decayCoyote(dt float64) {
	if c.coyoteTimer <= 0 || dt <= 0 {
		return
	}
	c.coyoteTimer -= dt
	if c.coyoteTimer < 0 {
		c.coyoteTimer = 0
	}
}

// applyMovement overrides vx from the horizontal intent and keeps vy, so
// gravity and jump impulses from the physics side survive.
func (c *Controller) applyMovement() {
	if c.body == nil {
		return
	}
	v := c.body.Velocity()
	c.body.SetVelocity(entity.Vec2{X: c.horizontal.Sign() * c.cfg.MoveSpeed, Y: v.Y})
}

func (c *Controller) setFacing(dir entity.Direction) {
	if c.facing == dir {
		return
	}
	c.facing = dir
	if c.facingHook != nil {
		c.facingHook.FacingChanged(dir)
	}
}

func (c *Controller) setHeld(dir entity.Direction, held bool) {
	switch dir {
	case entity.DirLeft:
		c.heldLeft = held
	case entity.DirRight:
		c.heldRight = held
	}
}

func (c *Controller) isHeld(dir entity.Direction) bool {
	switch dir {
	case entity.DirLeft:
		return c.heldLeft
	case entity.DirRight:
		return c.heldRight
	default:
		return false
	}
}

// Horizontal returns the current horizontal intent
func (c *Controller) Horizontal() entity.Direction {
	return c.horizontal
}

// Facing returns the last pressed direction (right before any press)
func (c *Controller) Facing() entity.Direction {
	return c.facing
}

// Grounded reports whether the character is touching ground
func (c *Controller) Grounded() bool {
	return c.grounded
}

// CoyoteTimer returns the seconds left in the coyote window
func (c *Controller) CoyoteTimer() float64 {
	return c.coyoteTimer
}

// CanJump reports whether a jump would currently succeed, body permitting
func (c *Controller) CanJump() bool {
	return c.State().CanJump()
}

// State returns the grounding state
func (c *Controller) State() state.Grounding {
	return state.Of(c.grounded, c.coyoteTimer)
}

// Config returns the session's movement config
func (c *Controller) Config() config.MovementConfig {
	return c.cfg
}
