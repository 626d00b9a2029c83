// Package calendarcalc turns a semester window, its holidays, and its
// exam ranges into the working-day count and grid dimensions the rest
// of the pipeline schedules against.
package calendarcalc

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/model"
)

// DateRange is an inclusive [Start, End] span, e.g. one exam window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Input is the raw calendar configuration for one semester.
type Input struct {
	Start         time.Time
	End           time.Time
	Holidays      []time.Time
	ExamRanges    []DateRange
	PeriodsPerDay int
	DaysPerWeek   int
}

// dateKey normalizes a time.Time to its calendar day, discarding any
// time-of-day component so holiday/exam membership compares cleanly.
func dateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func inAnyExamRange(day time.Time, ranges []DateRange) bool {
	for _, r := range ranges {
		start, end := dateKey(r.Start), dateKey(r.End)
		if !day.Before(start) && !day.After(end) {
			return true
		}
	}
	return false
}

// Compute derives the working-day calendar from in. If Start > End the
// window is invalid: it logs a warning and returns zero working days
// rather than aborting.
func Compute(in Input) model.CalendarWindow {
	if in.PeriodsPerDay <= 0 {
		in.PeriodsPerDay = 8
	}
	if in.DaysPerWeek <= 0 {
		in.DaysPerWeek = 6
	}

	start, end := dateKey(in.Start), dateKey(in.End)
	if start.After(end) {
		log.Warn().
			Time("start", in.Start).
			Time("end", in.End).
			Msg("calendarcalc: semester start is after end, yielding zero working days")
		return model.CalendarWindow{
			PeriodsPerDay: in.PeriodsPerDay,
			DaysPerWeek:   in.DaysPerWeek,
		}
	}

	holidays := make(map[time.Time]bool, len(in.Holidays))
	for _, h := range in.Holidays {
		holidays[dateKey(h)] = true
	}

	workingDays := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		if holidays[d] {
			continue
		}
		if inAnyExamRange(d, in.ExamRanges) {
			continue
		}
		workingDays++
	}

	totalWeeks := workingDays / in.DaysPerWeek
	workingWeeks := float64(workingDays) / float64(in.DaysPerWeek)

	return model.CalendarWindow{
		WorkingDays:   workingDays,
		WorkingWeeks:  workingWeeks,
		TotalWeeks:    totalWeeks,
		TotalPeriods:  workingDays * in.PeriodsPerDay,
		PeriodsPerDay: in.PeriodsPerDay,
		DaysPerWeek:   in.DaysPerWeek,
	}
}

// Grid builds the fixed weekly scheduling grid for a computed calendar
// window, falling back to defaultWeeks when the window yields none.
func Grid(cw model.CalendarWindow, defaultWeeks int) model.Grid {
	weeks := cw.TotalWeeks
	if weeks <= 0 {
		weeks = defaultWeeks
		log.Warn().Int("default_weeks", defaultWeeks).Msg("calendarcalc: falling back to default week count")
	}
	return model.Grid{
		Weeks:         weeks,
		DaysPerWeek:   cw.DaysPerWeek,
		PeriodsPerDay: cw.PeriodsPerDay,
	}
}
