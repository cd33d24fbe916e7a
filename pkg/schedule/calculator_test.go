package schedule_test

import (
	"testing"
	"time"

	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/conveyorhq/conveyor/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCron(t *testing.T) {
	t.Parallel()

	assert.NoError(t, schedule.ValidateCron("0 9 * * 1"))
	assert.NoError(t, schedule.ValidateCron("*/15 * * * *"))
	assert.Error(t, schedule.ValidateCron("not a cron"))
	assert.Error(t, schedule.ValidateCron("0 9 * *"))
}

func TestNextRunAt_Cron(t *testing.T) {
	t.Parallel()

	record := &models.WorkflowSchedule{
		ID:             "sched-1",
		Type:           models.ScheduleTypeCron,
		CronExpression: "0 9 * * *",
	}

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	next, err := schedule.NextRunAt(record, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), next.UTC())
	assert.True(t, next.After(now))
}

func TestNextRunAt_CronMalformed(t *testing.T) {
	t.Parallel()

	record := &models.WorkflowSchedule{
		ID:             "sched-1",
		Type:           models.ScheduleTypeCron,
		CronExpression: "banana",
	}

	_, err := schedule.NextRunAt(record, time.Now())
	require.Error(t, err)
	assert.True(t, models.IsInvalidSchedule(err))
}

func TestNextRunAt_IntervalAnchored(t *testing.T) {
	t.Parallel()

	record := &models.WorkflowSchedule{
		ID:   "sched-1",
		Type: models.ScheduleTypeInterval,
		IntervalConfig: &models.IntervalConfig{
			Unit:  models.IntervalUnitDays,
			Value: 1,
			Time:  "09:00",
		},
	}

	// Past today's anchor, so the next fire is tomorrow at the anchor.
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	next, err := schedule.NextRunAt(record, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), next.UTC())

	// Before today's anchor, so the next fire is today.
	now = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	next, err = schedule.NextRunAt(record, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextRunAt_IntervalUnanchored(t *testing.T) {
	t.Parallel()

	record := &models.WorkflowSchedule{
		ID:   "sched-1",
		Type: models.ScheduleTypeInterval,
		IntervalConfig: &models.IntervalConfig{
			Unit:  models.IntervalUnitMinutes,
			Value: 30,
		},
	}

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	next, err := schedule.NextRunAt(record, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), next.UTC())
}

func TestNextRunAt_IntervalMonthsCalendarAware(t *testing.T) {
	t.Parallel()

	record := &models.WorkflowSchedule{
		ID:   "sched-1",
		Type: models.ScheduleTypeInterval,
		IntervalConfig: &models.IntervalConfig{
			Unit:  models.IntervalUnitMonths,
			Value: 1,
		},
	}

	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	next, err := schedule.NextRunAt(record, now)
	require.NoError(t, err)

	// AddDate normalizes Jan 31 + 1 month to Mar 2 in a leap year.
	assert.Equal(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextRunAt_Calendar(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)

	record := &models.WorkflowSchedule{
		ID:           "sched-1",
		Type:         models.ScheduleTypeCalendar,
		CalendarDate: &future,
	}

	next, err := schedule.NextRunAt(record, now)
	require.NoError(t, err)
	assert.Equal(t, future, next)
}

func TestNextRunAt_CalendarInPast(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	record := &models.WorkflowSchedule{
		ID:           "sched-1",
		Type:         models.ScheduleTypeCalendar,
		CalendarDate: &past,
	}

	_, err := schedule.NextRunAt(record, now)
	require.Error(t, err)
	assert.True(t, models.IsInvalidSchedule(err))
	assert.Contains(t, err.Error(), "schedule time must be in the future")
}

func TestNextRunAt_Timezone(t *testing.T) {
	t.Parallel()

	record := &models.WorkflowSchedule{
		ID:             "sched-1",
		Type:           models.ScheduleTypeCron,
		CronExpression: "0 9 * * *",
		Timezone:       "America/New_York",
	}

	// 10:00 UTC is 05:00 in New York, so the next 09:00 local fire is
	// 14:00 UTC the same day.
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	next, err := schedule.NextRunAt(record, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), next.UTC())
}

func TestIntervalSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unit    models.IntervalUnit
		value   int
		seconds int64
	}{
		{models.IntervalUnitMinutes, 5, 300},
		{models.IntervalUnitHours, 2, 7200},
		{models.IntervalUnitDays, 1, 86400},
		{models.IntervalUnitWeeks, 1, 604800},
		{models.IntervalUnitMonths, 1, 2592000},
	}

	for _, tt := range tests {
		seconds, err := schedule.IntervalSeconds(tt.unit, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.seconds, seconds)
	}

	_, err := schedule.IntervalSeconds("FORTNIGHTS", 1)
	require.Error(t, err)
}

func TestIntervalToCron(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config models.IntervalConfig
		expr   string
	}{
		{"anchored days", models.IntervalConfig{Unit: models.IntervalUnitDays, Value: 2, Time: "09:30"}, "30 9 */2 * *"},
		{"anchored weeks", models.IntervalConfig{Unit: models.IntervalUnitWeeks, Value: 1, Time: "08:00"}, "0 8 * * 0"},
		{"anchored months", models.IntervalConfig{Unit: models.IntervalUnitMonths, Value: 3, Time: "00:15"}, "15 0 1 */3 *"},
		{"no anchor", models.IntervalConfig{Unit: models.IntervalUnitDays, Value: 1}, ""},
		{"sub-day unit", models.IntervalConfig{Unit: models.IntervalUnitHours, Value: 4, Time: "09:00"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expr, schedule.IntervalToCron(tt.config))
		})
	}
}

func TestCronForInterval(t *testing.T) {
	t.Parallel()

	expr, err := schedule.CronForInterval(models.IntervalConfig{Unit: models.IntervalUnitMinutes, Value: 15})
	require.NoError(t, err)
	assert.Equal(t, "*/15 * * * *", expr)

	expr, err = schedule.CronForInterval(models.IntervalConfig{Unit: models.IntervalUnitHours, Value: 6})
	require.NoError(t, err)
	assert.Equal(t, "0 */6 * * *", expr)

	expr, err = schedule.CronForInterval(models.IntervalConfig{Unit: models.IntervalUnitDays, Value: 1, Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "0 9 */1 * *", expr)

	// Every derived expression must itself parse.
	require.NoError(t, schedule.ValidateCron(expr))

	_, err = schedule.CronForInterval(models.IntervalConfig{Unit: "FORTNIGHTS", Value: 1})
	require.Error(t, err)
}
