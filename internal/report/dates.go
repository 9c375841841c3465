package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	isoDayLayout      = "2006-01-02"
	displayDayLayout  = "02.01.2006"
	displayTimeLayout = "15:04"
	unknownDayKey     = "0000-00-00"
)

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	isoDayLayout,
	displayDayLayout + " " + displayTimeLayout,
	displayDayLayout,
}

var weekdayNames = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// dayLabel renders a date as "Пн, 02.01.2006"; unparsable values are returned as is.
func dayLabel(value string) string {
	parsed, ok := parseDate(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%s, %s", weekdayNames[parsed.Weekday()], parsed.Format(displayDayLayout))
}

// dateTimeLabel renders a timestamp as "Пн, 02.01.2006 15:04".
func dateTimeLabel(value string) string {
	parsed, ok := parseDate(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%s, %s", weekdayNames[parsed.Weekday()], parsed.Format(displayDayLayout+" "+displayTimeLayout))
}

// dayKey is the ISO calendar day used to group and order rows.
func dayKey(value string) string {
	parsed, ok := parseDate(value)
	if !ok {
		return unknownDayKey
	}
	return parsed.Format(isoDayLayout)
}

// parseLabel reads back a label produced by dayLabel or dateTimeLabel.
func parseLabel(label string) (time.Time, bool) {
	if _, rest, found := strings.Cut(label, ", "); found {
		label = rest
	}
	label = strings.TrimSuffix(label, dayTotalSuffix)
	return parseDate(label)
}
