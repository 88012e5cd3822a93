package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/coyote/internal/domain/entity"
)

// Replayer plays recorded key edges back as an input source
type Replayer struct {
	data      ReplayData
	frame     int
	next      int
	listeners entity.Listeners[entity.KeyEvent]
	respawns  entity.Listeners[int]
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads and validates replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	return &data, nil
}

// SubscribeKeys registers fn for every replayed key edge
func (r *Replayer) SubscribeKeys(fn func(entity.KeyEvent)) entity.Subscription {
	return r.listeners.Add(fn)
}

// SubscribeRespawn registers fn for every replayed respawn. fn receives the
// frame number.
func (r *Replayer) SubscribeRespawn(fn func(frame int)) entity.Subscription {
	return r.respawns.Add(fn)
}

// Advance emits the respawn and key edges recorded for the current frame and
// moves to the next one. It returns false once the recording is exhausted.
func (r *Replayer) Advance() bool {
	if r.Done() {
		return false
	}

	for r.next < len(r.data.Frames) && r.data.Frames[r.next].F <= r.frame {
		fi := r.data.Frames[r.next]
		r.next++
		if fi.F < r.frame {
			continue
		}
		if fi.Respawn {
			r.respawns.Emit(fi.F)
		}
		for _, ev := range fi.events() {
			r.listeners.Emit(ev)
		}
	}
	r.frame++

	return true
}

// Done reports whether every frame has been played
func (r *Replayer) Done() bool {
	return r.frame >= r.data.Length
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return r.data.Length
}

// CreateTestReplayData creates replay data for testing. edges maps a frame
// number to the key events of that frame.
func CreateTestReplayData(frames int, edges map[int][]entity.KeyEvent) ReplayData {
	data := ReplayData{
		Version:   Version,
		Stage:     "test",
		StartTime: time.Now().Format(time.RFC3339),
		Length:    frames,
	}

	for f := 0; f < frames; f++ {
		evs, ok := edges[f]
		if !ok {
			continue
		}
		fi := FrameInput{F: f}
		for _, ev := range evs {
			if ev.Down {
				fi.Down = append(fi.Down, ev.Key.String())
			} else {
				fi.Up = append(fi.Up, ev.Key.String())
			}
		}
		data.Frames = append(data.Frames, fi)
	}

	return data
}
