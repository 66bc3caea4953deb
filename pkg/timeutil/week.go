package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// WeekStart returns midnight on the Monday of the week containing t.
// Sundays count as the last day of the previous week.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// WeekDays returns the 7 consecutive days starting at start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// DateKey formats a date as YYYY-MM-DD, the canonical key used for grid columns.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDateKey parses a YYYY-MM-DD string.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FormatDuration renders fractional hours as H:MM; zero and negative render "0:00".
func FormatDuration(hours float64) string {
	if hours <= 0 {
		return "0:00"
	}
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%d:%02d", h, m)
}

// ParseDuration accepts either H:MM or a bare decimal hour count.
// Empty or unparseable input yields 0.
func ParseDuration(input string) float64 {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0
	}

	if strings.Contains(input, ":") {
		parts := strings.SplitN(input, ":", 2)
		h, _ := strconv.ParseFloat(parts[0], 64)
		m, _ := strconv.ParseFloat(parts[1], 64)
		return h + m/60
	}

	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0
	}
	return v
}
