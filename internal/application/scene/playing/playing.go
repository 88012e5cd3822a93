// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/coyote/internal/application/replay"
	"github.com/younwookim/coyote/internal/application/scene"
	"github.com/younwookim/coyote/internal/application/system"
	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
	"github.com/younwookim/coyote/pkg/logger"
)

// Colors for rendering
var (
	colorWall       = color.RGBA{80, 80, 100, 255}
	colorPlatform   = color.RGBA{120, 110, 90, 255}
	colorPlayer     = color.RGBA{100, 200, 100, 255}
	colorPlayerEye  = color.RGBA{20, 20, 20, 255}
	colorPresent    = color.RGBA{26, 26, 46, 255}
	colorPast       = color.RGBA{59, 47, 30, 255}
	colorCoyoteBar  = color.RGBA{255, 200, 60, 255}
	colorGroundedUI = color.RGBA{100, 200, 100, 255}
)

// Options configures a Playing scene
type Options struct {
	Loader     *config.Loader
	Stage      string
	RecordPath string             // record key edges when set
	Replay     *replay.ReplayData // play back instead of reading the keyboard
	Watch      bool               // reload on config file changes

	// KeyPressed replaces ebiten.IsKeyPressed, mainly for tests
	KeyPressed func(ebiten.Key) bool
}

// Playing is the main gameplay scene
type Playing struct {
	opts    Options
	session *session

	timeline *system.Timeline
	replayer *replay.Replayer
	recorder *replay.Recorder
	watcher  *config.Watcher

	facing      entity.Direction
	backgrounds [2]color.RGBA // indexed by era
	screenW     int
	screenH     int
	frame       int
	finished    bool
	exited      bool
	sprite      *ebiten.Image

	log *logrus.Entry
}

// New loads the stage and controller config and builds the first session.
func New(opts Options) (*Playing, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("playing: no config loader")
	}

	gc, err := opts.Loader.LoadAll(opts.Stage)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	p := &Playing{
		opts:     opts,
		timeline: system.NewTimeline(system.DefaultTravelCooldown),
		facing:   entity.DirRight,
		log:      logger.For("playing").WithField("stage", opts.Stage),
	}
	p.timeline.OnChange = func(era system.Era) {
		p.log.WithField("era", era).Debug("era changed")
	}

	if opts.Replay != nil {
		p.replayer = replay.NewReplayer(*opts.Replay)
		p.replayer.SubscribeRespawn(func(int) { p.session.respawn() })
		p.log.WithField("frames", p.replayer.TotalFrames()).Info("replay loaded")
	} else if opts.RecordPath != "" {
		p.recorder = replay.NewRecorder(opts.Stage)
		p.log.WithField("path", opts.RecordPath).Info("recording enabled")
	}

	s, err := p.buildSession(gc)
	if err != nil {
		return nil, err
	}
	p.adopt(s)

	if opts.Watch && p.replayer == nil {
		p.startWatcher()
	}

	return p, nil
}

// adopt makes s the live session
func (p *Playing) adopt(s *session) {
	p.session = s
	p.facing = entity.DirRight
	p.screenW = s.cfg.Controller.Display.ScreenWidth
	p.screenH = s.cfg.Controller.Display.ScreenHeight
	p.backgrounds[system.EraPresent] = parseColor(s.cfg.Stage.Background.Present, colorPresent)
	p.backgrounds[system.EraPast] = parseColor(s.cfg.Stage.Background.Past, colorPast)
	p.sprite = nil

	if p.recorder != nil && s.keyboard != nil {
		p.recorder.Attach(s.keyboard)
	}
}

func (p *Playing) startWatcher() {
	base := p.opts.Loader.BasePath()
	dirs := []string{base, filepath.Join(base, "stages")}
	if item := p.session.cfg.Controller.Scripts.Item; item != "" {
		dirs = append(dirs, filepath.Dir(filepath.Join(base, item)))
	}

	seen := make(map[string]bool)
	existing := dirs[:0]
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}

	w, err := config.NewWatcher(existing...)
	if err != nil {
		p.log.WithError(err).Warn("config watch disabled")
		return
	}
	p.watcher = w
	p.log.WithField("dirs", existing).Debug("watching config")
}

// Update implements scene.Scene
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return nil, scene.ErrQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		p.saveRecording()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) && p.replayer == nil {
		p.respawn()
	}

	p.pollReload()
	p.Step(dt)

	return nil, nil
}

// Step advances one frame: input edges, timeline, controller, physics.
func (p *Playing) Step(dt float64) {
	s := p.session

	if p.replayer != nil {
		if !p.replayer.Advance() && !p.finished {
			p.finished = true
			p.log.WithField("frame", p.frame).Info("replay finished")
		}
	} else {
		s.keyboard.Poll()
	}
	if p.recorder != nil {
		p.recorder.EndFrame()
	}

	p.timeline.Update(dt)
	s.step(dt)
	p.frame++
}

// Reload re-reads the config and swaps in a new session. On failure the
// running session is kept.
func (p *Playing) Reload() error {
	gc, err := p.opts.Loader.LoadAll(p.opts.Stage)
	if err != nil {
		p.log.WithError(err).Warn("reload failed, keeping current config")
		return err
	}

	next, err := p.buildSession(gc)
	if err != nil {
		p.log.WithError(err).Warn("reload failed, keeping current config")
		return err
	}

	p.session.close()
	p.adopt(next)
	p.log.WithField("frame", p.frame).Info("config reloaded")
	return nil
}

func (p *Playing) pollReload() {
	if p.watcher == nil {
		return
	}

	select {
	case err, ok := <-p.watcher.Errors:
		if ok {
			p.log.WithError(err).Warn("config watch error")
		}
	default:
	}

	changed := false
	for {
		name, ok := p.watcher.Poll()
		if !ok {
			break
		}
		p.log.WithField("file", name).Debug("config changed")
		changed = true
	}
	if changed {
		_ = p.Reload()
	}
}

// respawn puts the character back on spawn. Recordings keep it so playback
// respawns on the same frame.
func (p *Playing) respawn() {
	p.session.respawn()
	if p.recorder != nil {
		p.recorder.RecordRespawn()
	}
	p.log.WithField("frame", p.frame).Debug("respawn")
}

func (p *Playing) setFacing(dir entity.Direction) {
	p.facing = dir
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.opts.RecordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}

	log := p.log.WithField("path", filename)
	if err := p.recorder.Save(filename); err != nil {
		log.WithError(err).Error("failed to save recording")
		return
	}
	log.WithField("frames", p.recorder.FrameCount()).Info("recording saved")
}

// Draw implements scene.Scene
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(p.backgrounds[p.timeline.Era()])

	camX, camY := p.camera()
	p.drawTiles(screen, camX, camY)
	p.drawPlayer(screen, camX, camY)
	p.drawUI(screen)
}

// camera returns the top-left of the view, centered on the character and
// clamped to the stage.
func (p *Playing) camera() (int, int) {
	s := p.session
	x, y := s.character.Position()
	w, h := s.character.Size()

	camX := int(x+w/2) - p.screenW/2
	camY := int(y+h/2) - p.screenH/2
	camX = clamp(camX, 0, s.stage.PixelWidth()-p.screenW)
	camY = clamp(camY, 0, s.stage.PixelHeight()-p.screenH)
	return camX, camY
}

func (p *Playing) drawTiles(screen *ebiten.Image, camX, camY int) {
	stage := p.session.stage
	ts := stage.TileSize

	startX, startY := camX/ts, camY/ts
	endX, endY := (camX+p.screenW)/ts+1, (camY+p.screenH)/ts+1

	for ty := max(startY, 0); ty <= endY && ty < stage.Height; ty++ {
		for tx := max(startX, 0); tx <= endX && tx < stage.Width; tx++ {
			var c color.Color
			switch stage.GetTile(tx, ty).Type {
			case entity.TileWall:
				c = colorWall
			case entity.TilePlatform:
				c = colorPlatform
			default:
				continue
			}

			x := float64(tx*ts - camX)
			y := float64(ty*ts - camY)
			ebitenutil.DrawRect(screen, x, y, float64(ts), float64(ts), c)
		}
	}
}

// drawPlayer draws the character sprite, mirrored when facing left
func (p *Playing) drawPlayer(screen *ebiten.Image, camX, camY int) {
	s := p.session
	x, y := s.character.Position()
	w, _ := s.character.Size()

	if p.sprite == nil {
		p.sprite = playerSprite(s.character.Size())
	}

	op := &ebiten.DrawImageOptions{}
	if p.facing == entity.DirLeft {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(w, 0)
	}
	op.GeoM.Translate(x-float64(camX), y-float64(camY))
	screen.DrawImage(p.sprite, op)
}

// playerSprite is a plain body with an eye on the right, so the mirror shows
func playerSprite(w, h float64) *ebiten.Image {
	iw, ih := max(int(w), 1), max(int(h), 1)
	img := ebiten.NewImage(iw, ih)
	img.Fill(colorPlayer)

	eye := max(iw/4, 1)
	ebitenutil.DrawRect(img, float64(iw-eye-1), float64(ih/4), float64(eye), float64(eye), colorPlayerEye)
	return img
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	ctrl := p.session.ctrl

	// coyote window as a shrinking bar
	if cfg := ctrl.Config(); cfg.CoyoteTime > 0 {
		ratio := ctrl.CoyoteTimer() / cfg.CoyoteTime
		ebitenutil.DrawRect(screen, 10, float64(p.screenH-14), 60*ratio, 4, colorCoyoteBar)
	}
	if ctrl.Grounded() {
		ebitenutil.DrawRect(screen, 10, float64(p.screenH-8), 4, 4, colorGroundedUI)
	}

	debugText := fmt.Sprintf("%s  coyote %.2f  facing %s  era %s",
		ctrl.State(), ctrl.CoyoteTimer(), ctrl.Facing(), p.timeline.Era())
	if p.replayer != nil {
		debugText += fmt.Sprintf("\nreplay %d/%d", p.replayer.CurrentFrame(), p.replayer.TotalFrames())
	}
	if item := p.session.item; item != nil && item.LastMessage() != "" {
		debugText += "\n" + item.LastMessage()
	}
	ebitenutil.DebugPrint(screen, debugText)
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	p.log.Debug("enter")
}

// OnExit saves the recording and releases the session
func (p *Playing) OnExit() {
	if p.exited {
		return
	}
	p.exited = true

	p.saveRecording()
	if p.recorder != nil {
		p.recorder.Stop()
	}
	if p.watcher != nil {
		_ = p.watcher.Close()
	}
	p.session.close()
}

// ScreenSize returns the logical screen size from the display config
func (p *Playing) ScreenSize() (int, int) {
	return p.screenW, p.screenH
}

// Display returns the display section of the live config
func (p *Playing) Display() config.DisplayConfig {
	return p.session.cfg.Controller.Display
}

// parseColor reads "#rrggbb", returning fallback for anything else
func parseColor(s string, fallback color.RGBA) color.RGBA {
	var r, g, b uint8
	if len(s) != 7 {
		return fallback
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return color.RGBA{r, g, b, 255}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
