package input

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
)

// Bindings maps each logical key to the physical keys that drive it
type Bindings map[entity.Key][]ebiten.Key

// DefaultBindings returns the built-in layout
func DefaultBindings() Bindings {
	return Bindings{
		entity.KeyMoveLeft:   {ebiten.KeyA, ebiten.KeyArrowLeft},
		entity.KeyMoveRight:  {ebiten.KeyD, ebiten.KeyArrowRight},
		entity.KeyJump:       {ebiten.KeyJ, ebiten.KeySpace},
		entity.KeyAction:     {ebiten.KeyK},
		entity.KeyTimeTravel: {ebiten.KeyShiftLeft},
	}
}

// ParseBindings overlays raw (logical name to ebiten key names) on the
// default layout. Logical keys missing from raw keep their defaults.
func ParseBindings(raw map[string][]string) (Bindings, error) {
	b := DefaultBindings()

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key, ok := entity.ParseKey(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown binding %q", config.ErrInvalidConfig, name)
		}

		physical := make([]ebiten.Key, 0, len(raw[name]))
		for _, keyName := range raw[name] {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(keyName)); err != nil {
				return nil, fmt.Errorf("%w: binding %s: %v", config.ErrInvalidConfig, name, err)
			}
			physical = append(physical, k)
		}
		if len(physical) == 0 {
			return nil, fmt.Errorf("%w: binding %s has no keys", config.ErrInvalidConfig, name)
		}
		b[key] = physical
	}

	return b, nil
}

// Lookup returns the logical keys bound to a physical key
func (b Bindings) Lookup(k ebiten.Key) []entity.Key {
	var out []entity.Key
	for _, logical := range entity.Keys() {
		for _, p := range b[logical] {
			if p == k {
				out = append(out, logical)
				break
			}
		}
	}
	return out
}
