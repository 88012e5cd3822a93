package entity

// Key is a logical key. Physical bindings live in the input layer.
type Key int

const (
	KeyNone Key = iota
	KeyMoveLeft
	KeyMoveRight
	KeyJump
	KeyAction
	KeyTimeTravel
)

var keyNames = map[Key]string{
	KeyMoveLeft:   "moveLeft",
	KeyMoveRight:  "moveRight",
	KeyJump:       "jump",
	KeyAction:     "action",
	KeyTimeTravel: "timeTravel",
}

// String returns the config name of the key
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "none"
}

// ParseKey maps a config name back to a Key
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyNone, false
}

// Keys lists every logical key in declaration order
func Keys() []Key {
	return []Key{KeyMoveLeft, KeyMoveRight, KeyJump, KeyAction, KeyTimeTravel}
}

// KeyEvent is a single rising or falling edge of a logical key
type KeyEvent struct {
	Key  Key
	Down bool
}

// Direction is a horizontal direction. The zero value is no direction.
type Direction int

const (
	DirNone  Direction = 0
	DirLeft  Direction = -1
	DirRight Direction = 1
)

// Sign returns -1, 0 or 1
func (d Direction) Sign() float64 {
	return float64(d)
}

// String returns "left", "right" or "none"
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DirectionOf returns the direction driven by a movement key
func DirectionOf(k Key) Direction {
	switch k {
	case KeyMoveLeft:
		return DirLeft
	case KeyMoveRight:
		return DirRight
	default:
		return DirNone
	}
}
