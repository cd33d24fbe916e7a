// Package schedule computes fire times for workflow schedules.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/robfig/cron/v3"
)

// Seconds per interval unit as stored on the schedule record. Months are a
// fixed 30-day approximation, not calendar-accurate.
var unitSeconds = map[models.IntervalUnit]int64{
	models.IntervalUnitMinutes: 60,
	models.IntervalUnitHours:   3600,
	models.IntervalUnitDays:    86400,
	models.IntervalUnitWeeks:   604800,
	models.IntervalUnitMonths:  2592000,
}

func cronParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// ValidateCron parses a standard 5-field cron expression.
func ValidateCron(expression string) error {
	_, err := cronParser().Parse(expression)

	return err
}

// NextRunAt computes the next fire time for a schedule, evaluated at now in
// the schedule's timezone. Calendar timestamps already in the past fail with
// an InvalidScheduleError.
func NextRunAt(schedule *models.WorkflowSchedule, now time.Time) (time.Time, error) {
	location, err := loadLocation(schedule.Timezone)
	if err != nil {
		return time.Time{}, models.NewInvalidScheduleError(schedule.ID, "unknown timezone "+schedule.Timezone, err)
	}

	localNow := now.In(location)

	switch schedule.Type {
	case models.ScheduleTypeCron:
		parsed, err := cronParser().Parse(schedule.CronExpression)
		if err != nil {
			return time.Time{}, models.NewInvalidScheduleError(schedule.ID, "malformed cron expression", err)
		}

		return parsed.Next(localNow), nil

	case models.ScheduleTypeInterval:
		if schedule.IntervalConfig == nil {
			return time.Time{}, models.NewInvalidScheduleError(schedule.ID, "interval schedule without interval config", nil)
		}

		return nextInterval(*schedule.IntervalConfig, localNow)

	case models.ScheduleTypeCalendar:
		if schedule.CalendarDate == nil {
			return time.Time{}, models.NewInvalidScheduleError(schedule.ID, "calendar schedule without date", nil)
		}

		if !schedule.CalendarDate.After(now) {
			return time.Time{}, models.NewInvalidScheduleError(schedule.ID, "schedule time must be in the future", nil)
		}

		return *schedule.CalendarDate, nil

	default:
		return time.Time{}, models.NewInvalidScheduleError(schedule.ID, fmt.Sprintf("unknown schedule type %q", schedule.Type), nil)
	}
}

// nextInterval resolves a fixed-cadence schedule. With an anchor the next run
// is today at the anchor if still in the future, otherwise the anchor plus
// one interval. Without an anchor it is simply now plus the interval.
func nextInterval(config models.IntervalConfig, localNow time.Time) (time.Time, error) {
	if config.Time == "" {
		return addInterval(localNow, config.Unit, config.Value), nil
	}

	hours, minutes, err := parseAnchor(config.Time)
	if err != nil {
		return time.Time{}, err
	}

	next := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), hours, minutes, 0, 0, localNow.Location())
	if !next.After(localNow) {
		next = addInterval(next, config.Unit, config.Value)
	}

	return next, nil
}

// IntervalSeconds converts an interval to the seconds stored on the record.
func IntervalSeconds(unit models.IntervalUnit, value int) (int64, error) {
	seconds, ok := unitSeconds[unit]
	if !ok {
		return 0, fmt.Errorf("unknown interval unit %q", unit)
	}

	return seconds * int64(value), nil
}

// IntervalToCron derives a cron expression from an anchored interval. Only
// day-and-coarser cadences have a cron equivalent; everything else returns
// the empty string and stays a plain interval.
func IntervalToCron(config models.IntervalConfig) string {
	if config.Time == "" {
		return ""
	}

	hours, minutes, err := parseAnchor(config.Time)
	if err != nil {
		return ""
	}

	switch config.Unit {
	case models.IntervalUnitDays:
		return fmt.Sprintf("%d %d */%d * *", minutes, hours, config.Value)
	case models.IntervalUnitWeeks:
		return fmt.Sprintf("%d %d * * 0", minutes, hours)
	case models.IntervalUnitMonths:
		return fmt.Sprintf("%d %d 1 */%d *", minutes, hours, config.Value)
	default:
		return ""
	}
}

// CronForInterval derives the cron expression armed for a recurring interval
// schedule. Anchored day-and-coarser cadences keep their calendar shape via
// IntervalToCron; everything else falls back to step fields, with unanchored
// daily-and-coarser cadences firing at midnight.
func CronForInterval(config models.IntervalConfig) (string, error) {
	if expr := IntervalToCron(config); expr != "" {
		return expr, nil
	}

	switch config.Unit {
	case models.IntervalUnitMinutes:
		return fmt.Sprintf("*/%d * * * *", config.Value), nil
	case models.IntervalUnitHours:
		return fmt.Sprintf("0 */%d * * *", config.Value), nil
	case models.IntervalUnitDays:
		return fmt.Sprintf("0 0 */%d * *", config.Value), nil
	case models.IntervalUnitWeeks:
		return "0 0 * * 0", nil
	case models.IntervalUnitMonths:
		return fmt.Sprintf("0 0 1 */%d *", config.Value), nil
	default:
		return "", fmt.Errorf("unknown interval unit %q", config.Unit)
	}
}

func addInterval(t time.Time, unit models.IntervalUnit, value int) time.Time {
	switch unit {
	case models.IntervalUnitMinutes:
		return t.Add(time.Duration(value) * time.Minute)
	case models.IntervalUnitHours:
		return t.Add(time.Duration(value) * time.Hour)
	case models.IntervalUnitDays:
		return t.AddDate(0, 0, value)
	case models.IntervalUnitWeeks:
		return t.AddDate(0, 0, 7*value)
	case models.IntervalUnitMonths:
		return t.AddDate(0, value, 0)
	default:
		return t
	}
}

func parseAnchor(anchor string) (int, int, error) {
	parts := strings.Split(anchor, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed anchor time %q, want HH:MM", anchor)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("malformed anchor hour %q", parts[0])
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("malformed anchor minute %q", parts[1])
	}

	return hours, minutes, nil
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}

	return time.LoadLocation(timezone)
}
