package timesheet_test

import (
	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CheckWeekPolicies", func() {
	weekStart := day("2024-01-08")

	It("should pass a normal working week without warnings", func() {
		entries := []*timesheet.Entry{
			makeEntry(1, 100, nil, "2024-01-08", 8, timesheet.StatusDraft),
			makeEntry(2, 100, nil, "2024-01-09", 7.5, timesheet.StatusDraft),
		}

		sheet := timesheet.BuildSheet(weekStart, entries, nil)
		Expect(timesheet.CheckWeekPolicies(sheet)).To(BeEmpty())
	})

	It("should warn about weekend hours", func() {
		entries := []*timesheet.Entry{
			makeEntry(1, 100, nil, "2024-01-13", 2, timesheet.StatusDraft), // Saturday
		}

		sheet := timesheet.BuildSheet(weekStart, entries, nil)
		Expect(timesheet.CheckWeekPolicies(sheet)).To(ConsistOf(
			"You have logged hours on a weekend (Saturday or Sunday)."))
	})

	It("should warn when a single day exceeds eight hours", func() {
		entries := []*timesheet.Entry{
			makeEntry(1, 100, nil, "2024-01-08", 6, timesheet.StatusDraft),
			makeEntry(2, 200, nil, "2024-01-08", 3, timesheet.StatusDraft),
		}

		sheet := timesheet.BuildSheet(weekStart, entries, nil)
		Expect(timesheet.CheckWeekPolicies(sheet)).To(ConsistOf(
			"You have logged more than 8 hours in a single day."))
	})

	It("should not warn at exactly eight hours", func() {
		entries := []*timesheet.Entry{
			makeEntry(1, 100, nil, "2024-01-08", 8, timesheet.StatusDraft),
		}

		sheet := timesheet.BuildSheet(weekStart, entries, nil)
		Expect(timesheet.CheckWeekPolicies(sheet)).To(BeEmpty())
	})

	It("should report both warnings together", func() {
		entries := []*timesheet.Entry{
			makeEntry(1, 100, nil, "2024-01-14", 9, timesheet.StatusDraft), // Sunday
		}

		sheet := timesheet.BuildSheet(weekStart, entries, nil)
		warnings := timesheet.CheckWeekPolicies(sheet)
		Expect(warnings).To(HaveLen(2))
	})
})
