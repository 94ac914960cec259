package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/shiftboard/internal/importer"
)

// Import reviews an interchange file and loads every normalized record into
// the store as dataset name, even when the batch has validation issues. It
// refuses only structurally broken input and input where every row failed.
func (s *scheduleService) Import(ctx context.Context, r io.Reader, name, source string) (report *ImportReport, err error) {
	uc := s.begin("import", map[string]any{"dataset": name, "source": source})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err = s.review(r, source)
	if err != nil {
		return nil, err
	}
	uc.set("rows", report.Rows)
	uc.set("records", len(report.Records))
	uc.set("row_issues", len(report.RowIssues))
	uc.set("validation_issues", len(report.ValidationIssues))

	if len(report.Records) == 0 && len(report.RowIssues) > 0 {
		return report, ErrNothingNormalized
	}

	s.store.LoadRecords(report.Records, name, source)
	s.dataset = name
	return report, nil
}

// Check reviews an interchange file without touching the store.
func (s *scheduleService) Check(ctx context.Context, r io.Reader, source string) (report *ImportReport, err error) {
	uc := s.begin("check", map[string]any{"source": source})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err = s.review(r, source)
	if err == nil {
		uc.set("records", len(report.Records))
		uc.set("clean", report.Clean())
	}
	return report, err
}

func (s *scheduleService) review(r io.Reader, source string) (*ImportReport, error) {
	rows, err := importer.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	res := s.normalizer.NormalizeAll(rows)
	report := &ImportReport{
		Source:    source,
		Rows:      len(rows),
		Records:   res.Records,
		RowIssues: res.Issues,
	}

	// Ids must be unique in the store. Later duplicates get a fresh id.
	seen := make(map[string]bool, len(report.Records))
	for _, rec := range report.Records {
		seen[rec.ID] = true
	}
	kept := make(map[string]bool, len(report.Records))
	for i := range report.Records {
		rec := &report.Records[i]
		if !kept[rec.ID] {
			kept[rec.ID] = true
			continue
		}
		old := rec.ID
		rec.ID = s.uniqueID(*rec, func(id string) bool { return seen[id] })
		seen[rec.ID] = true
		kept[rec.ID] = true
		report.Reassigned = append(report.Reassigned, IDReassignment{Old: old, New: rec.ID})
	}

	report.ValidationIssues = s.engine.ValidateAll(report.Records).Issues
	return report, nil
}
