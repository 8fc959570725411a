package runtime

import (
	"time"

	"github.com/tuitbot/tuitbot/internal/config"
)

// ScheduleGate answers whether now, interpreted in a configured IANA
// timezone, falls within the active hours and active weekdays a loop
// is allowed to act in.
type ScheduleGate struct {
	loc        *time.Location
	startMin   int
	endMin     int
	activeDays map[time.Weekday]bool
}

// NewScheduleGate builds a gate from cfg, falling back to UTC if the
// configured timezone name doesn't load.
func NewScheduleGate(cfg config.ScheduleConfig) *ScheduleGate {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil || loc == nil {
		loc = time.UTC
	}

	days := make(map[time.Weekday]bool, len(cfg.ActiveDays))
	for _, d := range cfg.ActiveDays {
		days[d] = true
	}

	return &ScheduleGate{
		loc:        loc,
		startMin:   cfg.ActiveHoursStart,
		endMin:     cfg.ActiveHoursEnd,
		activeDays: days,
	}
}

// Allowed reports whether now falls inside the gate's active window.
// A start > end window is treated as wrapping past midnight (e.g.
// 22:00-02:00): a minute qualifies if it is at or after start, or
// before end.
func (g *ScheduleGate) Allowed(now time.Time) bool {
	local := now.In(g.loc)
	if len(g.activeDays) > 0 && !g.activeDays[local.Weekday()] {
		return false
	}

	minute := local.Hour()*60 + local.Minute()
	if g.startMin <= g.endMin {
		return minute >= g.startMin && minute < g.endMin
	}
	return minute >= g.startMin || minute < g.endMin
}

// Location returns the gate's configured timezone, for loops that need
// to compare against wall-clock times (e.g. ScheduleConfig.PreferredTimes).
func (g *ScheduleGate) Location() *time.Location {
	return g.loc
}
