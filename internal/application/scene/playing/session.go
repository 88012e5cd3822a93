package playing

import (
	"fmt"

	"github.com/younwookim/coyote/internal/application/system"
	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
	"github.com/younwookim/coyote/internal/infrastructure/input"
	"github.com/younwookim/coyote/internal/infrastructure/physics"
	"github.com/younwookim/coyote/internal/infrastructure/script"
)

// session is everything built from one loaded config. A reload builds a new
// session and closes the old one.
type session struct {
	cfg       *config.GameConfig
	stage     *entity.Stage
	world     *physics.World
	character *physics.Character
	ctrl      *system.Controller
	keyboard  *input.Keyboard
	item      *script.ItemScript
}

// buildSession wires world, character, input and hooks to a fresh
// controller. The replayer, when set, replaces the keyboard.
func (p *Playing) buildSession(gc *config.GameConfig) (*session, error) {
	s := &session{cfg: gc}

	s.stage = system.LoadStage(gc.Stage)
	s.world = physics.NewWorld(gc.Controller.World, s.stage)
	s.character = s.world.AddCharacter(
		float64(s.stage.SpawnX), float64(s.stage.SpawnY),
		gc.Controller.World.BodyWidth, gc.Controller.World.BodyHeight,
	)

	var src system.InputSource
	if p.replayer != nil {
		src = p.replayer
	} else {
		bindings, err := input.ParseBindings(gc.Controller.Bindings)
		if err != nil {
			s.character.Remove()
			return nil, err
		}
		if p.opts.KeyPressed != nil {
			s.keyboard = input.NewKeyboardWithState(bindings, p.opts.KeyPressed)
		} else {
			s.keyboard = input.NewKeyboard(bindings)
		}
		src = s.keyboard
	}

	collab := system.Collaborators{
		Body:       s.character,
		Collider:   s.character,
		Input:      src,
		Facing:     system.FacingFunc(p.setFacing),
		TimeTravel: p.timeline,
	}

	if path := gc.Controller.Scripts.Item; path != "" {
		item, err := script.Load(p.opts.Loader, path)
		if err != nil {
			p.log.WithError(err).Warn("item script unavailable")
		} else {
			s.item = item
			collab.Item = item
		}
	}

	ctrl, err := system.AttachController(gc.Controller.Movement, collab)
	if err != nil {
		s.character.Remove()
		return nil, fmt.Errorf("build session: %w", err)
	}
	s.ctrl = ctrl

	if s.item != nil {
		s.item.Bind(func() (entity.Direction, bool) {
			return ctrl.Facing(), ctrl.Grounded()
		})
	}

	return s, nil
}

// step runs the controller, then the simulation, so that
// contact events see the velocity the controller just wrote.
func (s *session) step(dt float64) {
	s.ctrl.Update(dt)
	s.world.Step(dt)
}

// respawn puts the character back on the stage spawn point
func (s *session) respawn() {
	s.character.SetPosition(float64(s.stage.SpawnX), float64(s.stage.SpawnY))
}

// close releases held keys, then detaches the controller before the
// character leaves the space. The releases reach an attached recorder, so a
// reload shows up in a recording as ups followed by the new keyboard's downs.
func (s *session) close() {
	if s.keyboard != nil {
		s.keyboard.ReleaseAll()
	}
	s.ctrl.Detach()
	s.character.Remove()
}
