// Package calendar builds business-day simulation schedules on an exchange
// holiday calendar.
package calendar

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidSchedule = errors.New("invalid schedule")

// NYSE full-day closures.
var NYSE = []string{
	"2022-01-17", "2022-02-21", "2022-04-15", "2022-05-30", "2022-06-20", "2022-07-04", "2022-09-05", "2022-11-24", "2022-12-26",
	"2023-01-02", "2023-01-16", "2023-02-20", "2023-04-07", "2023-05-29", "2023-06-19", "2023-07-04", "2023-09-04", "2023-11-23", "2023-12-25",
	"2024-01-01", "2024-01-15", "2024-02-19", "2024-03-29", "2024-05-27", "2024-06-19", "2024-07-04", "2024-09-02", "2024-11-28", "2024-12-25",
	"2025-01-01", "2025-01-09", "2025-01-20", "2025-02-17", "2025-04-18", "2025-05-26", "2025-06-19", "2025-07-04", "2025-09-01", "2025-11-27", "2025-12-25",
	"2026-01-01", "2026-01-19", "2026-02-16", "2026-04-03", "2026-05-25", "2026-06-19", "2026-07-03", "2026-09-07", "2026-11-26", "2026-12-25",
	"2027-01-01", "2027-01-18", "2027-02-15", "2027-03-26", "2027-05-31", "2027-06-18", "2027-07-05", "2027-09-06", "2027-11-25", "2027-12-24",
}

// Hols parses holidays in Layout format.
func Hols(s []string) ([]time.Time, error) {
	h := make([]time.Time, len(s))
	for i, v := range s {
		d, err := time.Parse(Layout, v)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", v, err)
		}
		h[i] = d
	}
	return h, nil
}

// IsHoliday reports whether d falls on the same calendar day as any of hols.
func IsHoliday(d time.Time, hols []time.Time) bool {
	y, m, day := d.Date()
	for _, v := range hols {
		vy, vm, vd := v.Date()
		if y == vy && m == vm && day == vd {
			return true
		}
	}
	return false
}

func IsWeekday(d time.Time) bool {
	return d.Weekday() > time.Sunday && d.Weekday() < time.Saturday
}

// AdjustFollowing rolls d forward to the next business day.
func AdjustFollowing(d time.Time, hols []time.Time) time.Time {
	for IsHoliday(d, hols) || !IsWeekday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// ListBusinessDates returns start followed by every business day up to and
// including end.
func ListBusinessDates(start, end time.Time, hols []time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidSchedule, end.Format(Layout), start.Format(Layout))
	}
	out := []time.Time{start}
	for {
		start = AdjustFollowing(start.AddDate(0, 0, 1), hols)
		if start.After(end) {
			return out, nil
		}
		out = append(out, start)
	}
}

type Schedule struct {
	// Simulation holds every business day from the start date to the last
	// observation date.
	Simulation []time.Time
	// Observation holds the following-adjusted periodic fixing dates.
	Observation []time.Time
}

// GenerateSchedule builds a schedule of tenor months with an observation
// every freq months on the NYSE calendar.
func GenerateSchedule(start time.Time, tenor, freq int) (*Schedule, error) {
	hols, err := Hols(NYSE)
	if err != nil {
		return nil, err
	}
	return GenerateScheduleOn(start, tenor, freq, hols)
}

func GenerateScheduleOn(start time.Time, tenor, freq int, hols []time.Time) (*Schedule, error) {
	if freq <= 0 || tenor < freq {
		return nil, fmt.Errorf("%w: tenor %d months, frequency %d months", ErrInvalidSchedule, tenor, freq)
	}
	n := tenor / freq
	obs := make([]time.Time, n)
	for i := 0; i < n; i++ {
		obs[i] = AdjustFollowing(start.AddDate(0, (i+1)*freq, 0), hols)
	}
	sim, err := ListBusinessDates(start, obs[n-1], hols)
	if err != nil {
		return nil, err
	}
	return &Schedule{Simulation: sim, Observation: obs}, nil
}

// IsIn reports whether ts holds the instant t.
func IsIn(t time.Time, ts []time.Time) bool {
	return slices.ContainsFunc(ts, t.Equal)
}

// NormalizeTickers upper-cases, sorts and de-duplicates tickers. Blank
// entries are dropped.
func NormalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	for _, s := range tickers {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	unique := out[:0]
	for _, v := range out {
		if len(unique) == 0 || v != unique[len(unique)-1] {
			unique = append(unique, v)
		}
	}
	return unique
}
