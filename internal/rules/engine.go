package rules

import (
	"fmt"
	"math"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// WorkerDayLookup resolves the records sharing a (worker, date) pair.
// *store.Store and *store.Snapshot both satisfy it.
type WorkerDayLookup interface {
	RecordsByWorkerDate(worker, date string) []domain.ScheduleRecord
}

// Result is the outcome of a multi-check validation.
type Result struct {
	Valid  bool
	Issues domain.Issues
}

func newResult(issues domain.Issues) Result {
	return Result{Valid: len(issues) == 0, Issues: issues}
}

// OverlapResult is the outcome of the interactive overlap check.
type OverlapResult struct {
	Valid    bool
	Issue    domain.Issue
	Conflict *domain.ScheduleRecord
}

// Engine applies the business constraints to records.
type Engine struct {
	cfg    Config
	lookup WorkerDayLookup
}

// NewEngine creates an Engine reading existing records through lookup.
func NewEngine(cfg Config, lookup WorkerDayLookup) *Engine {
	return &Engine{cfg: cfg, lookup: lookup}
}

// Config returns the engine's constraint configuration.
func (e *Engine) Config() Config { return e.cfg }

// IsOverlapping reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints do not overlap.
func IsOverlapping(s1, e1, s2, e2 string) bool {
	return domain.TimeToMinutes(s1) < domain.TimeToMinutes(e2) &&
		domain.TimeToMinutes(s2) < domain.TimeToMinutes(e1)
}

// CheckBusinessHours reports whether [start,end] fits the business window.
// The start bound is checked first; only one failure is reported.
func (e *Engine) CheckBusinessHours(start, end string) (domain.Issue, bool) {
	if domain.TimeToMinutes(start) < domain.TimeToMinutes(e.cfg.BusinessStart) {
		return domain.Issue{
			Kind:    domain.IssueBusinessHours,
			Field:   "start",
			Message: fmt.Sprintf("開始時刻が営業時間外です（%s以降にしてください）", e.cfg.BusinessStart),
		}, false
	}
	if domain.TimeToMinutes(end) > domain.TimeToMinutes(e.cfg.BusinessEnd) {
		return domain.Issue{
			Kind:    domain.IssueBusinessHours,
			Field:   "end",
			Message: fmt.Sprintf("終了時刻が営業時間外です（%s以前にしてください）", e.cfg.BusinessEnd),
		}, false
	}
	return domain.Issue{}, true
}

// CheckWorkerOverlap returns the first record of the same worker and date
// whose interval overlaps rec. Records with id excludeID or rec.ID are
// skipped. Always valid when overlaps are allowed.
func (e *Engine) CheckWorkerOverlap(rec domain.ScheduleRecord, excludeID string) OverlapResult {
	if e.cfg.AllowOverlap || e.lookup == nil {
		return OverlapResult{Valid: true}
	}

	for _, existing := range e.lookup.RecordsByWorkerDate(rec.Worker, rec.Date) {
		if excludeID != "" && existing.ID == excludeID {
			continue
		}
		if existing.ID == rec.ID {
			continue
		}
		if IsOverlapping(rec.Start, rec.End, existing.Start, existing.End) {
			conflict := existing
			return OverlapResult{
				Issue: domain.Issue{
					Kind:     domain.IssueOverlap,
					RecordID: rec.ID,
					OtherID:  existing.ID,
					Message:  fmt.Sprintf("%sさんの %s-%s (%s) と重複します", rec.Worker, existing.Start, existing.End, existing.Process),
				},
				Conflict: &conflict,
			}
		}
	}
	return OverlapResult{Valid: true}
}

// ValidateRecord runs every single-record check and collects all failures.
// Call it before committing an add or update.
func (e *Engine) ValidateRecord(rec domain.ScheduleRecord, excludeID string) Result {
	var issues domain.Issues

	startOK := domain.IsValidTime(rec.Start)
	endOK := domain.IsValidTime(rec.End)
	if !domain.IsValidDate(rec.Date) {
		issues = append(issues, domain.Issue{Kind: domain.IssueDateFormat, Field: "date", RecordID: rec.ID,
			Message: fmt.Sprintf("日付形式が不正です (%s)", rec.Date)})
	}
	if !startOK {
		issues = append(issues, domain.Issue{Kind: domain.IssueTimeFormat, Field: "start", RecordID: rec.ID,
			Message: fmt.Sprintf("開始時刻形式が不正です (%s)", rec.Start)})
	}
	if !endOK {
		issues = append(issues, domain.Issue{Kind: domain.IssueTimeFormat, Field: "end", RecordID: rec.ID,
			Message: fmt.Sprintf("終了時刻形式が不正です (%s)", rec.End)})
	}
	if !startOK || !endOK {
		return newResult(issues)
	}

	if issue, ok := e.CheckBusinessHours(rec.Start, rec.End); !ok {
		issue.RecordID = rec.ID
		issues = append(issues, issue)
	}

	if domain.TimeToMinutes(rec.Start) >= domain.TimeToMinutes(rec.End) {
		issues = append(issues, domain.Issue{Kind: domain.IssueOrder, RecordID: rec.ID,
			Message: "開始時刻が終了時刻以降になっています"})
	}

	if overlap := e.CheckWorkerOverlap(rec, excludeID); !overlap.Valid {
		issues = append(issues, overlap.Issue)
	}

	return newResult(issues)
}

// ValidateAll checks a whole batch for import review. Unlike ValidateRecord
// it compares every pair of records sharing worker and date and reports
// every overlapping pair. It reads only the given records, never the lookup.
func (e *Engine) ValidateAll(records []domain.ScheduleRecord) Result {
	var issues domain.Issues

	for i, rec := range records {
		if issue, ok := e.CheckBusinessHours(rec.Start, rec.End); !ok {
			issue.RecordID = rec.ID
			issue.Message = fmt.Sprintf("ID %s: %s", rec.ID, issue.Message)
			issues = append(issues, issue)
		}

		if domain.TimeToMinutes(rec.Start) >= domain.TimeToMinutes(rec.End) {
			issues = append(issues, domain.Issue{Kind: domain.IssueOrder, RecordID: rec.ID,
				Message: fmt.Sprintf("ID %s: 開始時刻が終了時刻以降です", rec.ID)})
		}

		for _, other := range records[i+1:] {
			if rec.Worker != other.Worker || rec.Date != other.Date {
				continue
			}
			if IsOverlapping(rec.Start, rec.End, other.Start, other.End) {
				issues = append(issues, domain.Issue{
					Kind:     domain.IssueOverlap,
					RecordID: rec.ID,
					OtherID:  other.ID,
					Message:  fmt.Sprintf("ID %s と ID %s: %sさんの時間が重複しています", rec.ID, other.ID, rec.Worker),
				})
			}
		}
	}

	return newResult(issues)
}

// RoundToStep snaps t to a multiple of the time step per the round mode and
// clamps it into the business window. Malformed input is returned unchanged.
func (e *Engine) RoundToStep(t string) string {
	minutes := domain.TimeToMinutes(t)
	if minutes < 0 {
		return t
	}
	step := e.cfg.TimeStep
	if step <= 0 {
		step = 1
	}

	var rounded int
	switch e.cfg.RoundMode {
	case domain.RoundCeil:
		rounded = int(math.Ceil(float64(minutes)/float64(step))) * step
	case domain.RoundNear:
		rounded = int(math.Round(float64(minutes)/float64(step))) * step
	default:
		rounded = (minutes / step) * step
	}

	lo := domain.TimeToMinutes(e.cfg.BusinessStart)
	hi := domain.TimeToMinutes(e.cfg.BusinessEnd)
	rounded = max(lo, min(hi, rounded))
	return domain.MinutesToTime(rounded)
}
