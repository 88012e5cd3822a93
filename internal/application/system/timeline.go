package system

import (
	"github.com/sirupsen/logrus"

	"github.com/younwookim/coyote/pkg/logger"
)

// Era is the period the stage is shown in
type Era int

const (
	EraPresent Era = iota
	EraPast
)

// String returns "present" or "past"
func (e Era) String() string {
	if e == EraPast {
		return "past"
	}
	return "present"
}

// DefaultTravelCooldown is the minimum time between two era switches
const DefaultTravelCooldown = 0.25

// Timeline swaps between the present and the past. It implements
// TimeTravelHook.
type Timeline struct {
	era       Era
	cooldown  float64
	remaining float64

	// OnChange is called after every successful switch
	OnChange func(Era)

	log *logrus.Entry
}

// NewTimeline starts in the present. A negative cooldown is treated as 0.
func NewTimeline(cooldown float64) *Timeline {
	if cooldown < 0 {
		cooldown = 0
	}
	return &Timeline{
		cooldown: cooldown,
		log:      logger.For("timeline"),
	}
}

// TryTimeTravel switches era unless the cooldown is still running
func (t *Timeline) TryTimeTravel() {
	if t.remaining > 0 {
		t.log.WithField("remaining", t.remaining).Debug("time travel refused")
		return
	}

	if t.era == EraPresent {
		t.era = EraPast
	} else {
		t.era = EraPresent
	}
	t.remaining = t.cooldown

	t.log.WithField("era", t.era).Info("time travel")
	if t.OnChange != nil {
		t.OnChange(t.era)
	}
}

// Update runs the cooldown down
func (t *Timeline) Update(dt float64) {
	if t.remaining <= 0 || dt <= 0 {
		return
	}
	t.remaining -= dt
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// Era returns the current era
func (t *Timeline) Era() Era {
	return t.era
}
