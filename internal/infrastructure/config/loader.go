package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ControllerFileName = "controller.yaml"
	stagesDir          = "stages"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Controller *ControllerFile
	Stage      *StageConfig
}

// Loader loads game configuration from YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the directory the loader reads from
func (l *Loader) BasePath() string {
	return l.basePath
}

// ReadFile reads a file relative to the config root
func (l *Loader) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(l.fsys, name)
}

// LoadController loads and validates controller.yaml
func (l *Loader) LoadController() (*ControllerFile, error) {
	data, err := fs.ReadFile(l.fsys, ControllerFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ControllerFileName, err)
	}

	var cfg ControllerFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ControllerFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ControllerFileName, err)
	}

	return &cfg, nil
}

// LoadStage loads a stage YAML file
func (l *Loader) LoadStage(name string) (*StageConfig, error) {
	path := stagesDir + "/" + name + ".yaml"
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage %s: %w", name, err)
	}

	var cfg StageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stage %s: %w", name, err)
	}

	if cfg.Size.TileSize <= 0 {
		return nil, fmt.Errorf("stage %s: %w: tileSize must be > 0", name, ErrInvalidConfig)
	}

	return &cfg, nil
}

// LoadAll loads the controller config and the named stage
func (l *Loader) LoadAll(stage string) (*GameConfig, error) {
	controller, err := l.LoadController()
	if err != nil {
		return nil, err
	}

	stageCfg, err := l.LoadStage(stage)
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Controller: controller,
		Stage:      stageCfg,
	}, nil
}
