package replay

import (
	"errors"
	"fmt"

	"github.com/younwookim/coyote/internal/domain/entity"
)

// Version is written into every recording
const Version = "2.0"

// ErrInvalidReplay is returned for recordings that cannot be played back
var ErrInvalidReplay = errors.New("invalid replay")

// FrameInput records the logical key edges and respawns of a single frame.
// Frames with neither are not stored.
type FrameInput struct {
	F       int      `json:"f"`                 // Frame number
	Respawn bool     `json:"respawn,omitempty"` // Character put back on spawn, before the edges
	Up      []string `json:"up,omitempty"`      // Released keys
	Down    []string `json:"down,omitempty"`    // Pressed keys
}

func (fi FrameInput) empty() bool {
	return !fi.Respawn && len(fi.Up) == 0 && len(fi.Down) == 0
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	StartTime string       `json:"startTime"`
	Length    int          `json:"length"`
	Frames    []FrameInput `json:"frames"`
}

// Validate checks key names and frame ordering
func (d *ReplayData) Validate() error {
	last := -1
	for _, fi := range d.Frames {
		if fi.F <= last {
			return fmt.Errorf("%w: frame %d out of order", ErrInvalidReplay, fi.F)
		}
		if fi.F >= d.Length {
			return fmt.Errorf("%w: frame %d beyond length %d", ErrInvalidReplay, fi.F, d.Length)
		}
		last = fi.F

		for _, name := range append(append([]string{}, fi.Up...), fi.Down...) {
			if _, ok := entity.ParseKey(name); !ok {
				return fmt.Errorf("%w: frame %d: unknown key %q", ErrInvalidReplay, fi.F, name)
			}
		}
	}
	return nil
}

// events converts a frame to key events, releases first
func (fi FrameInput) events() []entity.KeyEvent {
	out := make([]entity.KeyEvent, 0, len(fi.Up)+len(fi.Down))
	for _, name := range fi.Up {
		if k, ok := entity.ParseKey(name); ok {
			out = append(out, entity.KeyEvent{Key: k, Down: false})
		}
	}
	for _, name := range fi.Down {
		if k, ok := entity.ParseKey(name); ok {
			out = append(out, entity.KeyEvent{Key: k, Down: true})
		}
	}
	return out
}
