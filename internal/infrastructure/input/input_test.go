package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
)

type fakeKeys map[ebiten.Key]bool

func (f fakeKeys) pressed(k ebiten.Key) bool {
	return f[k]
}

func createTestKeyboard() (*Keyboard, fakeKeys, *[]entity.KeyEvent) {
	keys := fakeKeys{}
	kb := NewKeyboardWithState(DefaultBindings(), keys.pressed)
	var events []entity.KeyEvent
	kb.SubscribeKeys(func(ev entity.KeyEvent) {
		events = append(events, ev)
	})
	return kb, keys, &events
}

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()

	for _, key := range entity.Keys() {
		assert.NotEmpty(t, b[key], key.String())
	}
	assert.Equal(t, []entity.Key{entity.KeyJump}, b.Lookup(ebiten.KeySpace))
	assert.Empty(t, b.Lookup(ebiten.KeyZ))
}

func TestParseBindings(t *testing.T) {
	t.Run("overrides named keys only", func(t *testing.T) {
		b, err := ParseBindings(map[string][]string{
			"jump": {"W", "ArrowUp"},
		})

		require.NoError(t, err)
		assert.Equal(t, []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, b[entity.KeyJump])
		assert.Equal(t, DefaultBindings()[entity.KeyMoveLeft], b[entity.KeyMoveLeft])
	})

	t.Run("nil keeps defaults", func(t *testing.T) {
		b, err := ParseBindings(nil)

		require.NoError(t, err)
		assert.Equal(t, DefaultBindings(), b)
	})

	t.Run("unknown logical key", func(t *testing.T) {
		_, err := ParseBindings(map[string][]string{"dash": {"Q"}})

		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("unknown physical key", func(t *testing.T) {
		_, err := ParseBindings(map[string][]string{"jump": {"NotAKey"}})

		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := ParseBindings(map[string][]string{"jump": {}})

		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestKeyboard_Poll(t *testing.T) {
	t.Run("emits edges only", func(t *testing.T) {
		kb, keys, events := createTestKeyboard()

		keys[ebiten.KeyJ] = true
		kb.Poll()
		kb.Poll()
		keys[ebiten.KeyJ] = false
		kb.Poll()

		assert.Equal(t, []entity.KeyEvent{
			{Key: entity.KeyJump, Down: true},
			{Key: entity.KeyJump, Down: false},
		}, *events)
	})

	t.Run("any bound key holds the logical key", func(t *testing.T) {
		kb, keys, events := createTestKeyboard()

		keys[ebiten.KeyA] = true
		kb.Poll()
		keys[ebiten.KeyArrowLeft] = true
		kb.Poll()
		keys[ebiten.KeyA] = false
		kb.Poll()

		assert.True(t, kb.isDown(entity.KeyMoveLeft))
		assert.Len(t, *events, 1)

		keys[ebiten.KeyArrowLeft] = false
		kb.Poll()

		assert.False(t, kb.isDown(entity.KeyMoveLeft))
		assert.Len(t, *events, 2)
	})

	t.Run("releases before presses", func(t *testing.T) {
		kb, keys, events := createTestKeyboard()

		keys[ebiten.KeyD] = true
		kb.Poll()
		keys[ebiten.KeyD] = false
		keys[ebiten.KeyA] = true
		kb.Poll()

		assert.Equal(t, []entity.KeyEvent{
			{Key: entity.KeyMoveRight, Down: true},
			{Key: entity.KeyMoveRight, Down: false},
			{Key: entity.KeyMoveLeft, Down: true},
		}, *events)
	})

	t.Run("unsubscribed listener hears nothing", func(t *testing.T) {
		keys := fakeKeys{}
		kb := NewKeyboardWithState(nil, keys.pressed)
		count := 0
		sub := kb.SubscribeKeys(func(entity.KeyEvent) { count++ })

		sub.Unsubscribe()
		keys[ebiten.KeyK] = true
		kb.Poll()

		assert.Equal(t, 0, count)
		assert.True(t, kb.isDown(entity.KeyAction))
	})
}

func TestKeyboard_ReleaseAll(t *testing.T) {
	kb, keys, events := createTestKeyboard()

	keys[ebiten.KeyD] = true
	keys[ebiten.KeySpace] = true
	kb.Poll()
	*events = nil

	kb.ReleaseAll()

	assert.Equal(t, []entity.KeyEvent{
		{Key: entity.KeyMoveRight, Down: false},
		{Key: entity.KeyJump, Down: false},
	}, *events)

	// physical keys still held come back on the next poll
	kb.Poll()
	assert.Len(t, *events, 4)
}
