package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
)

// Payroll column layout: the project renders as Client and the task as
// Project, matching what the downstream payroll system expects.
var csvHeaders = []string{"Client", "Project", "Description", "Date", "Hours", "Employee"}

// utf8BOM keeps Excel from mangling non-ASCII names.
const utf8BOM = "\xEF\xBB\xBF"

// BuildCSV renders approved entries as payroll CSV. Text columns are
// quoted with doubled inner quotes; date and hours stay bare. Lines are
// CRLF separated with no trailing newline.
func BuildCSV(entries []*timesheet.Entry) []byte {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	buf.WriteString(strings.Join(csvHeaders, ","))

	for _, e := range entries {
		taskName := ""
		if e.TaskName != nil {
			taskName = *e.TaskName
		}
		buf.WriteString("\r\n")
		buf.WriteString(strings.Join([]string{
			quote(e.ProjectName),
			quote(taskName),
			quote(e.Description),
			timeutil.DateKey(e.EntryDate),
			fmt.Sprintf("%.2f", e.Hours),
			quote(e.ContractorName),
		}, ","))
	}

	return buf.Bytes()
}

// Filename builds the attachment name for a date range export.
func Filename(start, end time.Time) string {
	return fmt.Sprintf("timesheet_export_%s_to_%s.csv", timeutil.DateKey(start), timeutil.DateKey(end))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
