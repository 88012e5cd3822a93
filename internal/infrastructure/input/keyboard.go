// Package input turns physical keyboard state into logical key edges.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/pkg/logger"
)

// Keyboard polls the bound physical keys once per frame and emits a
// KeyEvent whenever a logical key changes state. A logical key is down
// while any of its physical keys is held.
type Keyboard struct {
	bindings Bindings
	pressed  func(ebiten.Key) bool

	down      map[entity.Key]bool
	listeners entity.Listeners[entity.KeyEvent]

	log *logrus.Entry
}

// NewKeyboard creates a keyboard reading ebiten's key state
func NewKeyboard(b Bindings) *Keyboard {
	return NewKeyboardWithState(b, ebiten.IsKeyPressed)
}

// NewKeyboardWithState creates a keyboard reading key state from pressed
func NewKeyboardWithState(b Bindings, pressed func(ebiten.Key) bool) *Keyboard {
	if b == nil {
		b = DefaultBindings()
	}
	return &Keyboard{
		bindings: b,
		pressed:  pressed,
		down:     make(map[entity.Key]bool),
		log:      logger.For("input"),
	}
}

// SubscribeKeys registers fn for every logical key edge
func (k *Keyboard) SubscribeKeys(fn func(entity.KeyEvent)) entity.Subscription {
	return k.listeners.Add(fn)
}

// Poll samples the keyboard. Releases are emitted before presses so that
// switching direction within one frame ends on the new key.
func (k *Keyboard) Poll() {
	var ups, downs []entity.Key
	for _, key := range entity.Keys() {
		now := k.anyPressed(key)
		if now == k.down[key] {
			continue
		}
		k.down[key] = now
		if now {
			downs = append(downs, key)
		} else {
			ups = append(ups, key)
		}
	}

	for _, key := range ups {
		k.emit(entity.KeyEvent{Key: key, Down: false})
	}
	for _, key := range downs {
		k.emit(entity.KeyEvent{Key: key, Down: true})
	}
}

// isDown reports the last polled state of a logical key
func (k *Keyboard) isDown(key entity.Key) bool {
	return k.down[key]
}

// ReleaseAll emits a release for every logical key still down
func (k *Keyboard) ReleaseAll() {
	for _, key := range entity.Keys() {
		if !k.down[key] {
			continue
		}
		k.down[key] = false
		k.emit(entity.KeyEvent{Key: key, Down: false})
	}
}

func (k *Keyboard) anyPressed(key entity.Key) bool {
	for _, p := range k.bindings[key] {
		if k.pressed(p) {
			return true
		}
	}
	return false
}

func (k *Keyboard) emit(ev entity.KeyEvent) {
	k.log.WithFields(logrus.Fields{"key": ev.Key, "down": ev.Down}).Trace("key")
	k.listeners.Emit(ev)
}
