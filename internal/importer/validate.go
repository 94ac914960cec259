package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

var requiredFields = []string{"date", "worker", "process", "start", "end"}

// Result is the outcome of normalizing a batch of rows. Records holds every
// row that passed on its own; Issues is the union of all per-row failures.
type Result struct {
	Records []domain.ScheduleRecord
	Issues  domain.Issues
}

// NormalizeAll resets the id counter and normalizes each row independently.
// A failing row never blocks the others.
func (n *Normalizer) NormalizeAll(rows []domain.Row) Result {
	n.Reset()

	var res Result
	for i, row := range rows {
		rec, issues := n.NormalizeRow(row, i)
		if rec != nil {
			res.Records = append(res.Records, *rec)
		}
		res.Issues = append(res.Issues, issues...)
	}
	return res
}

// NormalizeRow converts one raw row into a canonical record. index is the
// 0-based data row index; reported line numbers account for the header row.
// A row with any issue is rejected entirely.
func (n *Normalizer) NormalizeRow(row domain.Row, index int) (*domain.ScheduleRecord, domain.Issues) {
	line := index + 2
	var issues domain.Issues

	for _, field := range requiredFields {
		if strings.TrimSpace(row[field]) == "" {
			issues = append(issues, domain.Issue{
				Kind:    domain.IssueFieldMissing,
				Line:    line,
				Field:   field,
				Message: fmt.Sprintf("行%d: %sが未入力です", line, field),
			})
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	rec := domain.ScheduleRecord{
		ID:      strings.TrimSpace(row["id"]),
		Date:    strings.TrimSpace(row["date"]),
		Worker:  strings.TrimSpace(row["worker"]),
		Process: strings.TrimSpace(row["process"]),
		Start:   domain.NormalizeTime(row["start"]),
		End:     domain.NormalizeTime(row["end"]),
		Note:    strings.TrimSpace(row["note"]),
		Color:   strings.TrimSpace(row["color"]),
	}

	if !domain.IsValidDate(rec.Date) {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueDateFormat,
			Line:    line,
			Field:   "date",
			Message: fmt.Sprintf("行%d: 日付形式が不正です (%s)", line, rec.Date),
		})
	}

	startOK := domain.IsValidTime(rec.Start)
	endOK := domain.IsValidTime(rec.End)
	if !startOK {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueTimeFormat,
			Line:    line,
			Field:   "start",
			Message: fmt.Sprintf("行%d: 開始時刻形式が不正です (%s)", line, rec.Start),
		})
	}
	if !endOK {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueTimeFormat,
			Line:    line,
			Field:   "end",
			Message: fmt.Sprintf("行%d: 終了時刻形式が不正です (%s)", line, rec.End),
		})
	}
	if startOK && endOK && domain.TimeToMinutes(rec.Start) >= domain.TimeToMinutes(rec.End) {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueOrder,
			Line:    line,
			Message: fmt.Sprintf("行%d: 開始時刻が終了時刻以降です (%s - %s)", line, rec.Start, rec.End),
		})
	}

	if len(issues) > 0 {
		return nil, issues
	}

	if rec.ID == "" {
		rec.ID = n.GenerateID(rec.Date, rec.Worker, rec.Process, rec.Start, rec.End)
	}
	return &rec, nil
}
