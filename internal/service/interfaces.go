package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/export"
	"github.com/alexanderramin/shiftboard/internal/rules"
	"github.com/alexanderramin/shiftboard/internal/store"
)

var (
	// ErrRecordNotFound is returned when a mutation names an unknown id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when an added record reuses a live id.
	ErrDuplicateID = errors.New("record id already exists")
	// ErrNothingNormalized rejects an import where every row failed.
	ErrNothingNormalized = errors.New("有効なデータがありません")
	// ErrNoDataset is returned by Save before a dataset was opened or imported.
	ErrNoDataset = errors.New("no dataset selected")
)

// ValidationError carries the constraint failures that blocked a mutation.
// Nothing is committed when it is returned.
type ValidationError struct {
	RecordID string
	Issues   domain.Issues
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Issues.Messages(), "; ")
}

// Unwrap exposes each issue so errors.As can reach a domain.Issue.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue
	}
	return out
}

// IDReassignment records a duplicate id replaced during import.
type IDReassignment struct {
	Old string
	New string
}

// ImportReport is the outcome of reviewing an interchange file.
type ImportReport struct {
	Source           string
	Rows             int
	Records          []domain.ScheduleRecord
	RowIssues        domain.Issues
	ValidationIssues domain.Issues
	Reassigned       []IDReassignment
}

// Clean reports whether every row normalized and the batch passed validation.
func (r *ImportReport) Clean() bool {
	return len(r.RowIssues) == 0 && len(r.ValidationIssues) == 0
}

// AssignResult describes what a cell assignment changed.
type AssignResult struct {
	Added    []domain.ScheduleRecord
	Removed  []string
	Rejected domain.Issues
}

// Changed reports whether the cell was modified at all.
func (r *AssignResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// ScheduleService orchestrates the store, the rules engine and persistence.
type ScheduleService interface {
	Snapshot() *store.Snapshot
	Subscribe(fn store.Subscriber) (unsubscribe func())
	Rules() rules.Config
	SetUI(patch domain.UIPatch)

	Import(ctx context.Context, r io.Reader, name, source string) (*ImportReport, error)
	Check(ctx context.Context, r io.Reader, source string) (*ImportReport, error)

	Open(ctx context.Context, name string) error
	Save(ctx context.Context) (*domain.Dataset, error)
	ListDatasets(ctx context.Context) ([]*domain.Dataset, error)
	DeleteDataset(ctx context.Context, name string) error

	AddRecord(ctx context.Context, rec domain.ScheduleRecord) (domain.ScheduleRecord, error)
	UpdateRecord(ctx context.Context, id string, patch domain.RecordPatch) (domain.ScheduleRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	AssignCell(ctx context.Context, mode domain.GridMode, row, date string, selected []string) (*AssignResult, error)
	Reschedule(ctx context.Context, id, date, start, end string) (domain.ScheduleRecord, error)

	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	ExportICS(ctx context.Context, w io.Writer, opts export.ICSOptions) (int, error)
}
