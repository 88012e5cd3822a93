// Package script runs the item-use hook written in Tengo.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
	"github.com/younwookim/coyote/pkg/logger"
)

// Globals the script reads and writes
const (
	varUses     = "uses"
	varFacing   = "facing"
	varGrounded = "grounded"
	varMessage  = "message"
)

// StateFunc reports the character state handed to the script
type StateFunc func() (facing entity.Direction, grounded bool)

// ItemScript is compiled once and run on every item use. Runtime errors are
// logged and swallowed; a failing script never stops the game.
type ItemScript struct {
	name     string
	compiled *tengo.Compiled
	state    StateFunc
	uses     int
	last     string

	log *logrus.Entry
}

// Compile compiles src. Only the fmt and text standard modules are
// importable.
func Compile(name string, src []byte) (*ItemScript, error) {
	s := tengo.NewScript(src)
	_ = s.Add(varUses, 0)
	_ = s.Add(varFacing, entity.DirRight.String())
	_ = s.Add(varGrounded, false)
	s.SetImports(stdlib.GetModuleMap("fmt", "text"))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	return &ItemScript{
		name:     name,
		compiled: compiled,
		log:      logger.For("script").WithField("script", name),
	}, nil
}

// Load reads and compiles a script relative to the config root
func Load(l *config.Loader, name string) (*ItemScript, error) {
	src, err := l.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", name, err)
	}
	return Compile(name, src)
}

// Bind sets where the script reads character state from
func (s *ItemScript) Bind(fn StateFunc) {
	s.state = fn
}

// UseItem runs the script once
func (s *ItemScript) UseItem() {
	s.uses++

	facing, grounded := entity.DirRight, false
	if s.state != nil {
		facing, grounded = s.state()
	}

	if err := s.run(facing, grounded); err != nil {
		s.log.WithError(err).WithField("uses", s.uses).Warn("item script failed")
		return
	}

	s.last = ""
	if s.compiled.IsDefined(varMessage) {
		s.last = strings.TrimSpace(s.compiled.Get(varMessage).String())
	}
	if s.last != "" {
		s.log.WithField("uses", s.uses).Info(s.last)
	}
}

// run recovers VM panics (tengo does not trap Go runtime errors such as
// integer division by zero) and returns them as errors.
func (s *ItemScript) run(facing entity.Direction, grounded bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script %s panicked: %v", s.name, r)
		}
	}()
	if err := s.compiled.Set(varUses, s.uses); err != nil {
		return err
	}
	if err := s.compiled.Set(varFacing, facing.String()); err != nil {
		return err
	}
	if err := s.compiled.Set(varGrounded, grounded); err != nil {
		return err
	}
	return s.compiled.Run()
}

// Uses returns how many times the item was used
func (s *ItemScript) Uses() int {
	return s.uses
}

// LastMessage returns the message set by the last successful run
func (s *ItemScript) LastMessage() string {
	return s.last
}

// Name returns the script path
func (s *ItemScript) Name() string {
	return s.name
}
