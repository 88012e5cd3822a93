package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/coyote/internal/domain/entity"
)

// Source emits logical key edges
type Source interface {
	SubscribeKeys(fn func(entity.KeyEvent)) entity.Subscription
}

// Recorder collects key edges and respawns frame by frame for later playback
type Recorder struct {
	data      ReplayData
	pending   FrameInput
	recording bool
	frame     int
	sub       entity.Subscription
}

// NewRecorder creates a new recorder for the given stage
func NewRecorder(stage string) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   Version,
			Stage:     stage,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 256),
		},
		recording: true,
	}
}

// Attach records every edge src emits until Stop
func (r *Recorder) Attach(src Source) {
	if r.sub != nil {
		r.sub.Unsubscribe()
	}
	r.sub = src.SubscribeKeys(r.Record)
}

// Record adds a key edge to the current frame
func (r *Recorder) Record(ev entity.KeyEvent) {
	if !r.recording || ev.Key == entity.KeyNone {
		return
	}
	if ev.Down {
		r.pending.Down = append(r.pending.Down, ev.Key.String())
	} else {
		r.pending.Up = append(r.pending.Up, ev.Key.String())
	}
}

// RecordRespawn marks the current frame as respawning the character
func (r *Recorder) RecordRespawn() {
	if r.recording {
		r.pending.Respawn = true
	}
}

// EndFrame closes the current frame
func (r *Recorder) EndFrame() {
	if !r.recording {
		return
	}
	if !r.pending.empty() {
		r.pending.F = r.frame
		r.data.Frames = append(r.data.Frames, r.pending)
	}
	r.pending = FrameInput{}
	r.frame++
	r.data.Length = r.frame
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if r.data.Length == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording and detaches from the input source
func (r *Recorder) Stop() {
	r.recording = false
	if r.sub != nil {
		r.sub.Unsubscribe()
		r.sub = nil
	}
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return r.data.Length
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
