// Package schedule runs the report job on a daily, weekly or monthly
// cadence.
package schedule

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Cadence is a human-level schedule: how often, on which day, at what
// local time (HH:MM, 24h).
type Cadence struct {
	Every string // daily, weekly, monthly
	Day   string // weekday name for weekly, day-of-month for monthly
	At    string // HH:MM
}

var weekdays = map[string]string{
	"sunday":    "SUN",
	"monday":    "MON",
	"tuesday":   "TUE",
	"wednesday": "WED",
	"thursday":  "THU",
	"friday":    "FRI",
	"saturday":  "SAT",
}

// CronSpec converts the cadence into a five-field cron expression.
func (c Cadence) CronSpec() (string, error) {
	hour, minute, err := parseAt(c.At)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(c.Every) {
	case "daily":
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case "weekly":
		day, ok := weekdays[strings.ToLower(c.Day)]
		if !ok {
			return "", fmt.Errorf("unknown weekday %q", c.Day)
		}
		return fmt.Sprintf("%d %d * * %s", minute, hour, day), nil
	case "monthly":
		dom, err := strconv.Atoi(c.Day)
		if err != nil || dom < 1 || dom > 31 {
			return "", fmt.Errorf("invalid day of month %q", c.Day)
		}
		return fmt.Sprintf("%d %d %d * *", minute, hour, dom), nil
	}
	return "", fmt.Errorf("unknown cadence %q", c.Every)
}

func parseAt(at string) (hour, minute int, err error) {
	parts := strings.SplitN(at, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", at)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", at)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", at)
	}
	return hour, minute, nil
}

// Scheduler wraps a cron runner around one report job.
type Scheduler struct {
	cron *cron.Cron
}

// New registers the job at the given cadence. Ticks that arrive while
// the previous run is still going are skipped, so report runs never
// overlap. Start must be called to begin ticking; Stop waits for a
// running job to finish.
func New(cadence Cadence, job func()) (*Scheduler, error) {
	spec, err := cadence.CronSpec()
	if err != nil {
		return nil, err
	}
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("register schedule %q: %w", spec, err)
	}
	log.Printf("[schedule] job registered with spec %q", spec)
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
