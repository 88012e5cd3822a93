package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/coyote/internal/application/state"
	"github.com/younwookim/coyote/internal/application/system"
	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
)

func createTestMovement() config.MovementConfig {
	return config.MovementConfig{
		MoveSpeed:  120,
		JumpForce:  330,
		CoyoteTime: 0.1,
	}
}

// frame runs the host order: controller first, then the simulation.
func frame(ctrl *system.Controller, w *World) {
	ctrl.Update(testDT)
	w.Step(testDT)
}

func TestController_OnCharacter(t *testing.T) {
	stage := createTestStage(
		"          ",
		"          ",
		"          ",
		"          ",
		"          ",
		"##########",
	)
	w := NewWorld(createTestWorldConfig(), stage)
	ch := w.AddCharacter(40, 40, 12, 20)

	ctrl, err := system.AttachController(createTestMovement(), system.Collaborators{
		Body:     ch,
		Collider: ch,
	})
	require.NoError(t, err)
	defer func() {
		ctrl.Detach()
		ch.Remove()
	}()

	t.Run("lands", func(t *testing.T) {
		for i := 0; i < 60 && !ctrl.Grounded(); i++ {
			frame(ctrl, w)
		}
		require.True(t, ctrl.Grounded())
		assert.Equal(t, state.Grounded, ctrl.State())
		assert.Equal(t, 0.0, ctrl.CoyoteTimer())
	})

	t.Run("walks", func(t *testing.T) {
		ctrl.DirectionDown(entity.DirRight)
		x0, _ := ch.Position()
		for i := 0; i < 10; i++ {
			frame(ctrl, w)
		}
		x1, _ := ch.Position()

		assert.Greater(t, x1, x0)
		assert.InDelta(t, 120.0, ch.Velocity().X, 1e-6)
		assert.True(t, ctrl.Grounded())

		ctrl.DirectionUp(entity.DirRight)
		frame(ctrl, w)
		assert.InDelta(t, 0.0, ch.Velocity().X, 1e-6)
	})

	t.Run("jump leaves no coyote window", func(t *testing.T) {
		_, y0 := ch.Position()
		require.True(t, ctrl.TryJump())
		assert.Equal(t, 330.0, ch.Velocity().Y)

		for i := 0; i < 5; i++ {
			frame(ctrl, w)
		}
		_, y1 := ch.Position()

		assert.Less(t, y1, y0, "stage y shrinks going up")
		assert.False(t, ctrl.Grounded())
		assert.Equal(t, 0.0, ctrl.CoyoteTimer())
		assert.False(t, ctrl.TryJump())
	})

	t.Run("lands again", func(t *testing.T) {
		for i := 0; i < 120 && !ctrl.Grounded(); i++ {
			frame(ctrl, w)
		}
		assert.True(t, ctrl.Grounded())
		assert.True(t, ctrl.CanJump())
	})
}

func TestController_WalksOffLedge(t *testing.T) {
	stage := createTestStage(
		"          ",
		"          ",
		"          ",
		"          ",
		"          ",
		"####      ",
	)
	w := NewWorld(createTestWorldConfig(), stage)
	ch := w.AddCharacter(20, 40, 12, 20)

	ctrl, err := system.AttachController(createTestMovement(), system.Collaborators{
		Body:     ch,
		Collider: ch,
	})
	require.NoError(t, err)
	defer func() {
		ctrl.Detach()
		ch.Remove()
	}()

	for i := 0; i < 60 && !ctrl.Grounded(); i++ {
		frame(ctrl, w)
	}
	require.True(t, ctrl.Grounded())

	ctrl.DirectionDown(entity.DirRight)
	for i := 0; i < 120 && ctrl.Grounded(); i++ {
		frame(ctrl, w)
	}
	require.False(t, ctrl.Grounded(), "should walk past the last tile")

	x, _ := ch.Position()
	assert.Greater(t, x, 32.0)
	assert.Equal(t, state.AirborneCoyote, ctrl.State())
	assert.Greater(t, ctrl.CoyoteTimer(), 0.0)
	assert.LessOrEqual(t, ctrl.CoyoteTimer(), 0.1)
	assert.LessOrEqual(t, ch.Velocity().Y, 0.0)

	require.True(t, ctrl.TryJump(), "jump inside the window")
	assert.Equal(t, 330.0, ch.Velocity().Y)
	assert.InDelta(t, 120.0, ch.Velocity().X, 1e-6)
	assert.Equal(t, 0.0, ctrl.CoyoteTimer())
	assert.False(t, ctrl.TryJump())
}
