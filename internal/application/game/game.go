// Package game runs scenes inside ebiten's fixed-tick loop.
package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/coyote/internal/application/scene"
	"github.com/younwookim/coyote/pkg/logger"
)

const defaultFramerate = 60

// Game implements ebiten.Game and manages scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      float64
	closed  bool

	log *logrus.Entry
}

// New creates a Game ticking at framerate (60 when not positive) and
// enters the initial scene.
func New(initial scene.Scene, screenW, screenH, framerate int) *Game {
	if framerate <= 0 {
		framerate = defaultFramerate
	}
	g := &Game{
		current: initial,
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / float64(framerate),
		log:     logger.For("game"),
	}
	g.current.OnEnter()
	return g
}

// Update implements ebiten.Game
func (g *Game) Update() error {
	if g.closed {
		return scene.ErrQuit
	}

	next, err := g.current.Update(g.dt)
	if err != nil {
		g.Close()
		if errors.Is(err, scene.ErrQuit) {
			return scene.ErrQuit
		}
		g.log.WithError(err).Error("scene failed")
		return err
	}

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}

	return nil
}

// Draw implements ebiten.Game
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout implements ebiten.Game
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// Close exits the current scene once. Later updates return ErrQuit.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.current.OnExit()
}
