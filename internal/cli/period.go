package cli

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout        = "2006-01-02"
	defaultPeriodDays = 7
)

// Period presets. Weeks start on Monday.
const (
	presetToday        = "today"
	presetYesterday    = "yesterday"
	presetCurrentWeek  = "current-week"
	presetLastWeek     = "last-week"
	presetCurrentMonth = "current-month"
	presetLastMonth    = "last-month"
	presetCurrentYear  = "current-year"
)

var presetNames = []string{
	presetToday, presetYesterday, presetCurrentWeek, presetLastWeek,
	presetCurrentMonth, presetLastMonth, presetCurrentYear,
}

type periodRange struct {
	From time.Time
	To   time.Time
}

func (p periodRange) String() string {
	return fmt.Sprintf("%s - %s", p.From.Format(dateLayout), p.To.Format(dateLayout))
}

// resolvePeriod picks the report range: explicit dates win over a preset; with
// neither the last seven days are used.
func resolvePeriod(from, to, preset string, now time.Time) (periodRange, error) {
	if from != "" || to != "" {
		return parsePeriod(from, to)
	}
	if preset != "" {
		return presetPeriod(preset, now)
	}
	today := startOfDay(now)
	return periodRange{From: today.AddDate(0, 0, -defaultPeriodDays), To: today}, nil
}

func parsePeriod(from, to string) (periodRange, error) {
	var p periodRange
	var err error

	if from != "" {
		if p.From, err = parseDate(from); err != nil {
			return periodRange{}, fmt.Errorf("invalid -from date: %w", err)
		}
	}
	if to != "" {
		if p.To, err = parseDate(to); err != nil {
			return periodRange{}, fmt.Errorf("invalid -to date: %w", err)
		}
	}
	if p.From.IsZero() {
		p.From = p.To
	}
	if p.To.IsZero() {
		p.To = p.From
	}
	return p, nil
}

func presetPeriod(name string, now time.Time) (periodRange, error) {
	today := startOfDay(now)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case presetToday:
		return periodRange{From: today, To: today}, nil
	case presetYesterday:
		day := today.AddDate(0, 0, -1)
		return periodRange{From: day, To: day}, nil
	case presetCurrentWeek:
		return periodRange{From: startOfWeek(today), To: today}, nil
	case presetLastWeek:
		monday := startOfWeek(today).AddDate(0, 0, -7)
		return periodRange{From: monday, To: monday.AddDate(0, 0, 6)}, nil
	case presetCurrentMonth:
		return periodRange{From: startOfMonth(today), To: today}, nil
	case presetLastMonth:
		first := startOfMonth(today).AddDate(0, -1, 0)
		return periodRange{From: first, To: startOfMonth(today).AddDate(0, 0, -1)}, nil
	case presetCurrentYear:
		return periodRange{From: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()), To: today}, nil
	default:
		return periodRange{}, fmt.Errorf("unknown period %q (available: %s)", name, strings.Join(presetNames, ", "))
	}
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.Local)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
