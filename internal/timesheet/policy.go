package timesheet

import (
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

const maxDailyHours = 8.0

// CheckWeekPolicies runs the advisory submission checks over a built
// sheet. Warnings never block a submit on their own; the caller decides
// whether to surface them for confirmation or push through.
func CheckWeekPolicies(sheet *Sheet) []string {
	var warnings []string

	hasWeekendHours := false
	hasOvertime := false
	for _, dayKey := range sheet.Days {
		total := sheet.DayTotals[dayKey]
		if total <= 0 {
			continue
		}
		day, err := timeutil.ParseDateKey(dayKey)
		if err == nil && timeutil.IsWeekend(day) {
			hasWeekendHours = true
		}
		if total > maxDailyHours {
			hasOvertime = true
		}
	}

	if hasWeekendHours {
		warnings = append(warnings, "You have logged hours on a weekend (Saturday or Sunday).")
	}
	if hasOvertime {
		warnings = append(warnings, "You have logged more than 8 hours in a single day.")
	}
	return warnings
}
