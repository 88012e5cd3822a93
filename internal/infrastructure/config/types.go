package config

import (
	"errors"
	"fmt"

	"github.com/younwookim/coyote/internal/domain/entity"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// ControllerFile is the root config for controller.yaml
type ControllerFile struct {
	Display  DisplayConfig       `yaml:"display"`
	World    WorldConfig         `yaml:"world"`
	Movement MovementConfig      `yaml:"movement"`
	Bindings map[string][]string `yaml:"bindings"`
	Scripts  ScriptsConfig       `yaml:"scripts"`
}

type DisplayConfig struct {
	ScreenWidth  int `yaml:"screenWidth"`
	ScreenHeight int `yaml:"screenHeight"`
	Scale        int `yaml:"scale"`
	Framerate    int `yaml:"framerate"`
}

// WorldConfig configures the rigid-body world hosting the character
type WorldConfig struct {
	Gravity    float64 `yaml:"gravity"`    // units/s^2, applied downward
	Iterations int     `yaml:"iterations"` // solver iterations per step
	Friction   float64 `yaml:"friction"`
	BodyWidth  float64 `yaml:"bodyWidth"`
	BodyHeight float64 `yaml:"bodyHeight"`
}

// GroundPolicy selects which contacts count as ground
type GroundPolicy string

const (
	// GroundAnyContact treats every collider contact as ground, walls and
	// ceilings included.
	GroundAnyContact GroundPolicy = "any"
	// GroundSurfaceNormal only counts contacts whose normal points up
	// toward the character by at least MinGroundNormalY.
	GroundSurfaceNormal GroundPolicy = "normal"
)

// MovementConfig is immutable for the lifetime of one controller session
type MovementConfig struct {
	MoveSpeed        float64      `yaml:"moveSpeed"`  // units/s
	JumpForce        float64      `yaml:"jumpForce"`  // launch velocity, units/s
	CoyoteTime       float64      `yaml:"coyoteTime"` // seconds
	Grounding        GroundPolicy `yaml:"grounding"`
	MinGroundNormalY float64      `yaml:"minGroundNormalY"`
}

// DefaultMinGroundNormalY accepts surfaces up to 60 degrees from flat
const DefaultMinGroundNormalY = 0.5

// Validate checks the movement values and fills policy defaults
func (m *MovementConfig) Validate() error {
	if m.MoveSpeed <= 0 {
		return fmt.Errorf("%w: moveSpeed must be > 0, got %v", ErrInvalidConfig, m.MoveSpeed)
	}
	if m.JumpForce <= 0 {
		return fmt.Errorf("%w: jumpForce must be > 0, got %v", ErrInvalidConfig, m.JumpForce)
	}
	if m.CoyoteTime < 0 {
		return fmt.Errorf("%w: coyoteTime must be >= 0, got %v", ErrInvalidConfig, m.CoyoteTime)
	}

	switch m.Grounding {
	case "":
		m.Grounding = GroundAnyContact
	case GroundAnyContact, GroundSurfaceNormal:
	default:
		return fmt.Errorf("%w: unknown grounding policy %q", ErrInvalidConfig, m.Grounding)
	}

	if m.MinGroundNormalY == 0 {
		m.MinGroundNormalY = DefaultMinGroundNormalY
	}
	if m.MinGroundNormalY < 0 || m.MinGroundNormalY > 1 {
		return fmt.Errorf("%w: minGroundNormalY must be in (0, 1], got %v", ErrInvalidConfig, m.MinGroundNormalY)
	}

	return nil
}

type ScriptsConfig struct {
	Item string `yaml:"item"` // tengo script run on the action key, relative to the config dir
}

// Validate checks the whole file
func (c *ControllerFile) Validate() error {
	if err := c.Movement.Validate(); err != nil {
		return fmt.Errorf("movement: %w", err)
	}

	for name, keys := range c.Bindings {
		if _, ok := entity.ParseKey(name); !ok {
			return fmt.Errorf("bindings: %w: unknown key %q", ErrInvalidConfig, name)
		}
		if len(keys) == 0 {
			return fmt.Errorf("bindings: %w: key %q has no physical keys", ErrInvalidConfig, name)
		}
	}

	if c.Display.Framerate <= 0 {
		c.Display.Framerate = 60
	}
	if c.Display.Scale <= 0 {
		c.Display.Scale = 1
	}
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		c.Display.ScreenWidth, c.Display.ScreenHeight = 320, 240
	}
	if c.World.Iterations <= 0 {
		c.World.Iterations = 10
	}
	if c.World.BodyWidth <= 0 || c.World.BodyHeight <= 0 {
		c.World.BodyWidth, c.World.BodyHeight = 12, 20
	}

	return nil
}
