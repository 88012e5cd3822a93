// Package scene defines the screens the game loop switches between.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// ErrQuit ends the game loop without reporting a failure
var ErrQuit = ebiten.Termination

// Scene is one screen of the game.
//
// Update runs once per tick with a fixed dt in seconds and returns the
// scene to switch to, or nil to stay. Returning ErrQuit stops the game
// cleanly; any other error aborts it.
type Scene interface {
	Update(dt float64) (next Scene, err error)
	Draw(screen *ebiten.Image)

	// OnEnter and OnExit bracket the time a scene is current
	OnEnter()
	OnExit()
}
