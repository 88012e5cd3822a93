package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/coyote/internal/application/game"
	"github.com/younwookim/coyote/internal/application/replay"
	"github.com/younwookim/coyote/internal/application/scene/playing"
	"github.com/younwookim/coyote/internal/infrastructure/config"
	"github.com/younwookim/coyote/pkg/logger"
)

const defaultStage = "demo"

// options are the command line flags
type options struct {
	configDir  string
	stage      string
	recordPath string
	replayPath string
	watch      bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options

	fset := flag.NewFlagSet("game", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.StringVar(&opts.configDir, "config", "", "Config directory (default: embedded configs)")
	fset.StringVar(&opts.stage, "stage", "", "Stage name under stages/ (default: demo, or the replay's stage)")
	fset.StringVar(&opts.recordPath, "record", "", "Record input to file (e.g., -record replay.json)")
	fset.StringVar(&opts.replayPath, "replay", "", "Play back a recorded input file")
	fset.BoolVar(&opts.watch, "watch", true, "Reload when files in -config change")

	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	if opts.recordPath != "" && opts.replayPath != "" {
		return options{}, fmt.Errorf("-record and -replay are mutually exclusive")
	}
	return opts, nil
}

// newLoader reads from dir, or from the embedded configs when dir is empty
func newLoader(dir string) (*config.Loader, error) {
	if dir == "" {
		fsys, err := fs.Sub(configFS, "configs")
		if err != nil {
			return nil, fmt.Errorf("embedded configs: %w", err)
		}
		return config.NewFSLoader(fsys, "configs"), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config dir %s is not a directory", dir)
	}
	return config.NewLoader(dir), nil
}

// sceneOptions resolves flags into scene options, loading the replay file
func sceneOptions(opts options, loader *config.Loader) (playing.Options, error) {
	so := playing.Options{
		Loader:     loader,
		Stage:      opts.stage,
		RecordPath: opts.recordPath,
		Watch:      opts.watch && opts.configDir != "",
	}

	if opts.replayPath != "" {
		data, err := replay.LoadReplay(opts.replayPath)
		if err != nil {
			return playing.Options{}, err
		}
		so.Replay = data
		if so.Stage == "" {
			so.Stage = data.Stage
		}
	}
	if so.Stage == "" {
		so.Stage = defaultStage
	}

	return so, nil
}

func main() {
	logger.Init()

	if err := run(os.Args[1:], os.Stderr); err != nil {
		logger.For("main").WithError(err).Fatal("game stopped")
	}
}

// run starts the game and blocks until it ends. The game is closed before
// run returns, so a recording is saved even when the caller exits on error.
func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("invalid flags: %w", err)
	}

	loader, err := newLoader(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}

	so, err := sceneOptions(opts, loader)
	if err != nil {
		return fmt.Errorf("failed to load replay: %w", err)
	}

	scene, err := playing.New(so)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	w, h := scene.ScreenSize()
	display := scene.Display()
	g := game.New(scene, w, h, display.Framerate)
	defer g.Close()

	ebiten.SetWindowSize(w*display.Scale, h*display.Scale)
	ebiten.SetWindowTitle("Coyote")
	ebiten.SetTPS(display.Framerate)

	return ebiten.RunGame(g)
}
