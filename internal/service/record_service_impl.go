package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

func (s *scheduleService) AddRecord(ctx context.Context, rec domain.ScheduleRecord) (added domain.ScheduleRecord, err error) {
	uc := s.begin("add-record", map[string]any{"worker": rec.Worker, "date": rec.Date})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec = cleanRecord(rec)
	snap := s.store.Snapshot()
	if rec.ID == "" {
		rec.ID = s.uniqueID(rec, func(id string) bool { _, ok := snap.Record(id); return ok })
	} else if _, exists := snap.Record(rec.ID); exists {
		return domain.ScheduleRecord{}, fmt.Errorf("%s: %w", rec.ID, ErrDuplicateID)
	}
	uc.set("id", rec.ID)

	if err := s.validate(rec, ""); err != nil {
		return domain.ScheduleRecord{}, err
	}

	s.store.AddRecord(rec)
	s.syncWeekWorker()
	return rec, nil
}

func (s *scheduleService) UpdateRecord(ctx context.Context, id string, patch domain.RecordPatch) (updated domain.ScheduleRecord, err error) {
	uc := s.begin("update-record", map[string]any{"id": id})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.store.Snapshot().Record(id)
	if !ok {
		return domain.ScheduleRecord{}, fmt.Errorf("%s: %w", id, ErrRecordNotFound)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	next := cleanRecord(patch.Apply(current))
	if err := s.validate(next, id); err != nil {
		return domain.ScheduleRecord{}, err
	}

	s.store.UpdateRecord(id, patchFrom(next))
	s.syncWeekWorker()
	return next, nil
}

func (s *scheduleService) DeleteRecord(ctx context.Context, id string) (err error) {
	uc := s.begin("delete-record", map[string]any{"id": id})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Snapshot().Record(id); !ok {
		return fmt.Errorf("%s: %w", id, ErrRecordNotFound)
	}
	s.store.DeleteRecord(id)
	s.syncWeekWorker()
	return nil
}

// AssignCell makes the set of workers (process mode) or processes (worker
// mode) assigned to one grid cell equal selected. Items no longer selected
// lose every record they have in the cell. New items get a record spanning
// the whole business window; those the rules reject are reported and skipped.
func (s *scheduleService) AssignCell(ctx context.Context, mode domain.GridMode, row, date string, selected []string) (res *AssignResult, err error) {
	uc := s.begin("assign-cell", map[string]any{"mode": string(mode), "row": row, "date": date})
	defer func() { uc.done(ctx, err) }()

	if !domain.IsValidDate(date) {
		return nil, &ValidationError{Issues: domain.Issues{{Kind: domain.IssueDateFormat, Field: "date",
			Message: fmt.Sprintf("日付形式が不正です (%s)", date)}}}
	}
	row = strings.TrimSpace(row)
	if row == "" {
		return nil, &ValidationError{Issues: domain.Issues{{Kind: domain.IssueFieldMissing, Field: "row",
			Message: "行が未入力です"}}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var cell []domain.ScheduleRecord
	itemOf := func(r domain.ScheduleRecord) string { return r.Worker }
	switch mode {
	case domain.GridByProcess:
		cell = s.store.RecordsByProcessDate(row, date)
	case domain.GridByWorker:
		cell = s.store.RecordsByWorkerDate(row, date)
		itemOf = func(r domain.ScheduleRecord) string { return r.Process }
	default:
		return nil, fmt.Errorf("unknown grid mode %q", mode)
	}

	current := make(map[string]bool, len(cell))
	for _, r := range cell {
		current[itemOf(r)] = true
	}
	wanted := make(map[string]bool, len(selected))
	var toAdd []string
	for _, item := range selected {
		item = strings.TrimSpace(item)
		if item == "" || wanted[item] {
			continue
		}
		wanted[item] = true
		if !current[item] {
			toAdd = append(toAdd, item)
		}
	}

	res = &AssignResult{}
	for _, r := range cell {
		if !wanted[itemOf(r)] {
			s.store.DeleteRecord(r.ID)
			res.Removed = append(res.Removed, r.ID)
		}
	}

	cfg := s.engine.Config()
	for _, item := range toAdd {
		rec := domain.ScheduleRecord{Date: date, Start: cfg.BusinessStart, End: cfg.BusinessEnd}
		if mode == domain.GridByProcess {
			rec.Worker, rec.Process = item, row
		} else {
			rec.Worker, rec.Process = row, item
		}
		snap := s.store.Snapshot()
		rec.ID = s.uniqueID(rec, func(id string) bool { _, ok := snap.Record(id); return ok })

		if verr := s.validate(rec, ""); verr != nil {
			res.Rejected = append(res.Rejected, verr.(*ValidationError).Issues...)
			continue
		}
		s.store.AddRecord(rec)
		res.Added = append(res.Added, rec)
	}

	uc.set("added", len(res.Added))
	uc.set("removed", len(res.Removed))
	uc.set("rejected", len(res.Rejected))
	if res.Changed() {
		s.syncWeekWorker()
	}
	return res, nil
}

// Reschedule moves a record to a new time range (and optionally a new date)
// after snapping both ends to the time step. A range that collapses after
// rounding is widened to one step.
func (s *scheduleService) Reschedule(ctx context.Context, id, date, start, end string) (moved domain.ScheduleRecord, err error) {
	uc := s.begin("reschedule", map[string]any{"id": id})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.store.Snapshot().Record(id)
	if !ok {
		return domain.ScheduleRecord{}, fmt.Errorf("%s: %w", id, ErrRecordNotFound)
	}

	next := current
	if date = strings.TrimSpace(date); date != "" {
		next.Date = date
	}
	next.Start = domain.NormalizeTime(start)
	next.End = domain.NormalizeTime(end)
	if domain.IsValidTime(next.Start) && domain.IsValidTime(next.End) {
		next.Start = s.engine.RoundToStep(next.Start)
		next.End = s.engine.RoundToStep(next.End)
		if startMin, endMin := domain.TimeToMinutes(next.Start), domain.TimeToMinutes(next.End); startMin >= endMin {
			next.End = domain.MinutesToTime(min(startMin+s.engine.Config().TimeStep, 24*60-1))
		}
	}
	uc.set("start", next.Start)
	uc.set("end", next.End)

	if err := s.validate(next, id); err != nil {
		return domain.ScheduleRecord{}, err
	}

	s.store.UpdateRecord(id, domain.RecordPatch{Date: &next.Date, Start: &next.Start, End: &next.End})
	return next, nil
}

// uniqueID asks the normalizer for an id that taken rejects. Sequence ids
// advance on every call; content ids are deterministic and get a numeric
// suffix instead.
func (s *scheduleService) uniqueID(rec domain.ScheduleRecord, taken func(string) bool) string {
	id := s.normalizer.GenerateID(rec.Date, rec.Worker, rec.Process, rec.Start, rec.End)
	if s.normalizer.Scheme() == domain.IDSchemeSequence {
		for taken(id) {
			id = s.normalizer.GenerateID(rec.Date, rec.Worker, rec.Process, rec.Start, rec.End)
		}
		return id
	}
	base := id
	for n := 2; taken(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

func cleanRecord(r domain.ScheduleRecord) domain.ScheduleRecord {
	r.ID = strings.TrimSpace(r.ID)
	r.Date = strings.TrimSpace(r.Date)
	r.Worker = strings.TrimSpace(r.Worker)
	r.Process = strings.TrimSpace(r.Process)
	r.Start = domain.NormalizeTime(r.Start)
	r.End = domain.NormalizeTime(r.End)
	r.Note = strings.TrimSpace(r.Note)
	r.Color = strings.TrimSpace(r.Color)
	return r
}

func patchFrom(r domain.ScheduleRecord) domain.RecordPatch {
	return domain.RecordPatch{
		Date: &r.Date, Worker: &r.Worker, Process: &r.Process,
		Start: &r.Start, End: &r.End, Note: &r.Note, Color: &r.Color,
	}
}
