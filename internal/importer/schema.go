package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// StructuralParseError reports text that could not be split into rows and
// columns at all. It discards the whole batch.
type StructuralParseError struct {
	Line int
	Err  error
}

func (e *StructuralParseError) Error() string {
	return fmt.Sprintf("CSV解析エラー: %v (行%d)", e.Err, e.Line)
}

func (e *StructuralParseError) Unwrap() error { return e.Err }

// Issue converts the error into a domain issue.
func (e *StructuralParseError) Issue() domain.Issue {
	return domain.Issue{Kind: domain.IssueStructuralParse, Line: e.Line, Message: e.Error()}
}

// ParseCSV splits interchange text into field-keyed rows. Header names are
// trimmed and lower-cased; blank lines are skipped.
func ParseCSV(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		line := 0
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			line = pe.Line
			err = pe.Err
		}
		return nil, &StructuralParseError{Line: line, Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]domain.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(domain.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			row[name] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV renders records in the fixed output column order.
func WriteCSV(w io.Writer, records []domain.ScheduleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range ToRows(records) {
		line := make([]string, len(domain.Columns))
		for i, col := range domain.Columns {
			line[i] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("writing record %s: %w", row["id"], err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func isBlank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}
