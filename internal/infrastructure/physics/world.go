// Package physics hosts the character in a Chipmunk2D space and reports its
// contacts as begin/end events.
//
// Coordinates are Y-up with the origin at the bottom-left corner of the
// stage. Stage tiles (row 0 at the top) are converted on the way in.
package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
	"github.com/younwookim/coyote/pkg/logger"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeCharacter
)

const boundsThickness = 1.0

// World owns the Chipmunk space, the static stage shapes and the characters.
type World struct {
	space         *cp.Space
	stage         *entity.Stage
	handlersReady bool

	colliderIDs map[*cp.Shape]entity.ColliderID
	characters  map[*cp.Shape]*Character
	nextID      entity.ColliderID
	staticCount int

	cfg config.WorldConfig
	log *logrus.Entry
}

// NewWorld creates a space with downward gravity and builds static shapes
// for every solid tile of stage. A nil stage yields an empty world.
func NewWorld(cfg config.WorldConfig, stage *entity.Stage) *World {
	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	}
	space.SetGravity(cp.Vector{X: 0, Y: -cfg.Gravity})

	w := &World{
		space:       space,
		stage:       stage,
		colliderIDs: make(map[*cp.Shape]entity.ColliderID),
		characters:  make(map[*cp.Shape]*Character),
		cfg:         cfg,
		log:         logger.For("physics"),
	}
	w.buildStaticShapes()
	w.setupHandlers()

	w.log.WithField("static_shapes", w.staticCount).Debug("world built")
	return w
}

// Space returns the underlying Chipmunk space
func (w *World) Space() *cp.Space {
	return w.space
}

// StaticShapes returns the number of static colliders built from the stage
func (w *World) StaticShapes() int {
	return w.staticCount
}

// Step advances the simulation. Contact events are delivered synchronously
// from inside Step.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// ToWorld converts a stage pixel coordinate (Y down) to world space
func (w *World) ToWorld(px, py float64) cp.Vector {
	return cp.Vector{X: px, Y: w.stageHeight() - py}
}

// ToStage converts a world coordinate back to stage pixels
func (w *World) ToStage(v cp.Vector) (float64, float64) {
	return v.X, w.stageHeight() - v.Y
}

func (w *World) stageHeight() float64 {
	if w.stage == nil {
		return 0
	}
	return float64(w.stage.PixelHeight())
}

func (w *World) addStatic(shape *cp.Shape) {
	shape.SetFriction(w.cfg.Friction)
	shape.SetCollisionType(collisionTypeSolid)
	w.space.AddShape(shape)

	w.nextID++
	w.colliderIDs[shape] = w.nextID
	w.staticCount++
}

// buildStaticShapes merges contiguous solid tiles into rectangles, widest
// first, so resting on a long floor is a single contact.
func (w *World) buildStaticShapes() {
	s := w.stage
	if s == nil || s.Width == 0 || s.Height == 0 {
		return
	}

	ts := float64(s.TileSize)
	processed := make([]bool, s.Width*s.Height)
	solid := func(x, y int) bool {
		return !processed[y*s.Width+x] && s.Tiles[y][x].Solid
	}

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if !solid(x, y) {
				processed[y*s.Width+x] = true
				continue
			}

			wTiles := 1
			for x+wTiles < s.Width && solid(x+wTiles, y) {
				wTiles++
			}

			hTiles := 1
		heightLoop:
			for y+hTiles < s.Height {
				for xi := x; xi < x+wTiles; xi++ {
					if !solid(xi, y+hTiles) {
						break heightLoop
					}
				}
				hTiles++
			}

			top := w.ToWorld(float64(x)*ts, float64(y)*ts)
			bb := cp.BB{
				L: top.X,
				R: top.X + float64(wTiles)*ts,
				T: top.Y,
				B: top.Y - float64(hTiles)*ts,
			}
			w.addStatic(cp.NewBox2(w.space.StaticBody, bb, 0))

			for yy := y; yy < y+hTiles; yy++ {
				for xx := x; xx < x+wTiles; xx++ {
					processed[yy*s.Width+xx] = true
				}
			}
		}
	}

	width := float64(s.PixelWidth())
	height := w.stageHeight()
	for _, seg := range []struct{ a, b cp.Vector }{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},           // bottom
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}}, // top
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},          // left
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},  // right
	} {
		w.addStatic(cp.NewSegment(w.space.StaticBody, seg.a, seg.b, boundsThickness))
	}
}

func (w *World) setupHandlers() {
	if w.handlersReady {
		return
	}

	handler := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeSolid)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok {
			return true
		}
		ch, other, flip := world.resolve(arb)
		if ch == nil {
			return true
		}

		// Arbiter normals point from the first shape to the second; flip so
		// the event normal points toward the character.
		n := arb.Normal()
		if !flip {
			n = n.Neg()
		}
		ch.emit(entity.ContactEvent{
			Phase:  entity.ContactBegin,
			Other:  other,
			Normal: entity.Vec2{X: n.X, Y: n.Y},
		})
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*World)
		if !ok {
			return
		}
		ch, other, _ := world.resolve(arb)
		if ch == nil {
			return
		}
		ch.emit(entity.ContactEvent{Phase: entity.ContactEnd, Other: other})
	}

	w.handlersReady = true
}

// resolve finds the character and the other collider of an arbiter.
// flip is true when the character is the second shape.
func (w *World) resolve(arb *cp.Arbiter) (ch *Character, other entity.ColliderID, flip bool) {
	a, b := arb.Shapes()
	if c, ok := w.characters[a]; ok {
		return c, w.colliderIDs[b], false
	}
	if c, ok := w.characters[b]; ok {
		return c, w.colliderIDs[a], true
	}
	return nil, 0, false
}
