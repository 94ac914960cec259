package store

import (
	"time"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// State is the lifecycle state of a Store.
type State int

const (
	StateEmpty State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

type pairKey struct {
	label string
	date  string
}

// Snapshot is an immutable view of the store's full state. Indexes are
// always consistent with the record collection. Slices returned by its
// methods are copies and may be modified by the caller.
type Snapshot struct {
	state       State
	version     uint64
	datasetName string
	source      string
	records     []domain.ScheduleRecord
	ui          domain.UIState
	dirty       bool
	lastSavedAt time.Time

	byID          map[string]domain.ScheduleRecord
	byDate        map[string][]string
	byWorkerDate  map[pairKey][]string
	byProcessDate map[pairKey][]string
	workers       []string
	processes     []string
}

func (s *Snapshot) State() State        { return s.state }
func (s *Snapshot) Version() uint64     { return s.version }
func (s *Snapshot) DatasetName() string { return s.datasetName }
func (s *Snapshot) Source() string      { return s.source }
func (s *Snapshot) UI() domain.UIState  { return s.ui }
func (s *Snapshot) Dirty() bool         { return s.dirty }
func (s *Snapshot) Len() int            { return len(s.records) }

// LastSavedAt returns the last save time and whether a save happened since
// the dataset was loaded.
func (s *Snapshot) LastSavedAt() (time.Time, bool) {
	return s.lastSavedAt, !s.lastSavedAt.IsZero()
}

// Records returns the collection in sort order.
func (s *Snapshot) Records() []domain.ScheduleRecord {
	out := make([]domain.ScheduleRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Record looks up a record by id.
func (s *Snapshot) Record(id string) (domain.ScheduleRecord, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Workers returns the sorted distinct worker names.
func (s *Snapshot) Workers() []string { return append([]string(nil), s.workers...) }

// Processes returns the sorted distinct process names.
func (s *Snapshot) Processes() []string { return append([]string(nil), s.processes...) }

// RecordsByDate returns the records on date in sort order.
func (s *Snapshot) RecordsByDate(date string) []domain.ScheduleRecord {
	return s.resolve(s.byDate[date])
}

// RecordsByWorkerDate returns the worker's records on date in sort order.
func (s *Snapshot) RecordsByWorkerDate(worker, date string) []domain.ScheduleRecord {
	return s.resolve(s.byWorkerDate[pairKey{worker, date}])
}

// RecordsByProcessDate returns the process's records on date in sort order.
func (s *Snapshot) RecordsByProcessDate(process, date string) []domain.ScheduleRecord {
	return s.resolve(s.byProcessDate[pairKey{process, date}])
}

// resolve maps ids to records, dropping ids that no longer resolve.
func (s *Snapshot) resolve(ids []string) []domain.ScheduleRecord {
	if len(ids) == 0 {
		return nil
	}
	out := make([]domain.ScheduleRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
