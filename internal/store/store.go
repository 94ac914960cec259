// Package store holds the canonical in-memory schedule dataset together with
// its lookup indexes. Every mutation replaces the current Snapshot with a
// freshly indexed one and then publishes it to subscribers, so no observer
// ever sees a half-rebuilt index.
package store

import (
	"sync"
	"time"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/importer"
)

// Store owns the canonical record collection of one dataset.
type Store struct {
	// pubMu orders commits and their publication, so subscribers see
	// versions in increasing order. mu guards snap alone.
	pubMu       sync.Mutex
	mu          sync.Mutex
	snap        *Snapshot
	defaultDate string
	now         func() time.Time
	onError     func(error)
	subs        subscriberList
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultDate sets the date the UI anchors reset to on load.
func WithDefaultDate(date string) Option {
	return func(s *Store) { s.defaultDate = date }
}

// WithClock overrides the time source used by MarkSaved.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithErrorHandler receives subscriber failures. The default logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		defaultDate: domain.DefaultDate,
		now:         time.Now,
		onError:     logSubscriberError,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = s.emptySnapshot(0)
	return s
}

func (s *Store) emptySnapshot(version uint64) *Snapshot {
	snap := &Snapshot{
		state:   StateEmpty,
		version: version,
		ui:      domain.DefaultUIState(s.defaultDate),
	}
	snap.rebuildIndexes()
	return snap
}

// Subscribe registers fn for every future snapshot. The returned function
// unsubscribes; calling it more than once is harmless.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	return s.subs.add(fn)
}

// Snapshot returns the current consistent state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// commit derives the next snapshot from the current one, publishes it and
// returns it. mutate runs on a private copy and reports whether anything
// changed; when it did not, nothing is published and nil is returned.
func (s *Store) commit(mutate func(next *Snapshot) bool, reindex bool) *Snapshot {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	next := *s.snap
	if !mutate(&next) {
		s.mu.Unlock()
		return nil
	}
	next.version++
	if reindex {
		next.rebuildIndexes()
	}
	snap := &next
	s.snap = snap
	s.mu.Unlock()

	s.subs.publish(snap, s.onError)
	return snap
}

// Reset discards the dataset and returns the store to the empty state.
func (s *Store) Reset() {
	s.commit(func(next *Snapshot) bool {
		*next = *s.emptySnapshot(next.version)
		return true
	}, false)
}

// LoadRecords replaces the whole collection. The dirty flag is cleared, the
// UI dates are reset to the default date and the selected week worker
// becomes the first distinct worker.
func (s *Store) LoadRecords(records []domain.ScheduleRecord, datasetName, source string) {
	s.commit(func(next *Snapshot) bool {
		next.state = StateLoaded
		next.records = importer.SortRecords(records)
		next.datasetName = datasetName
		next.source = source
		next.dirty = false
		next.lastSavedAt = time.Time{}
		next.ui.AnchorDate = s.defaultDate
		next.ui.GanttDate = s.defaultDate
		next.ui.WeekDate = s.defaultDate
		next.rebuildIndexes()
		next.ui.WeekWorker = ""
		if len(next.workers) > 0 {
			next.ui.WeekWorker = next.workers[0]
		}
		return true
	}, false)
}

// AddRecord appends rec and re-sorts. It performs no validation; callers
// validate with the rules engine first.
func (s *Store) AddRecord(rec domain.ScheduleRecord) {
	s.commit(func(next *Snapshot) bool {
		records := make([]domain.ScheduleRecord, 0, len(next.records)+1)
		records = append(records, next.records...)
		records = append(records, rec)
		next.records = importer.SortRecords(records)
		next.state = StateLoaded
		next.dirty = true
		return true
	}, true)
}

// UpdateRecord merges patch into the record with the given id and re-sorts.
// An unknown id is a no-op and publishes nothing.
func (s *Store) UpdateRecord(id string, patch domain.RecordPatch) {
	s.commit(func(next *Snapshot) bool {
		if _, ok := next.Record(id); !ok {
			return false
		}
		records := make([]domain.ScheduleRecord, len(next.records))
		for i, r := range next.records {
			if r.ID == id {
				r = patch.Apply(r)
			}
			records[i] = r
		}
		next.records = importer.SortRecords(records)
		next.dirty = true
		return true
	}, true)
}

// DeleteRecord removes the record with the given id. An unknown id is a
// no-op and publishes nothing.
func (s *Store) DeleteRecord(id string) {
	s.commit(func(next *Snapshot) bool {
		if _, ok := next.Record(id); !ok {
			return false
		}
		records := make([]domain.ScheduleRecord, 0, len(next.records))
		for _, r := range next.records {
			if r.ID != id {
				records = append(records, r)
			}
		}
		next.records = records
		next.dirty = true
		return true
	}, true)
}

// SetUI merges a UI patch. Records are untouched but subscribers are still
// notified.
func (s *Store) SetUI(patch domain.UIPatch) {
	s.commit(func(next *Snapshot) bool {
		next.ui = patch.Apply(next.ui)
		return true
	}, false)
}

// MarkSaved clears the dirty flag and records the save time.
func (s *Store) MarkSaved() {
	now := s.now()
	s.commit(func(next *Snapshot) bool {
		next.dirty = false
		next.lastSavedAt = now
		return true
	}, false)
}

// RecordsByDate returns the current records on date.
func (s *Store) RecordsByDate(date string) []domain.ScheduleRecord {
	return s.Snapshot().RecordsByDate(date)
}

// RecordsByWorkerDate returns the current records of worker on date.
func (s *Store) RecordsByWorkerDate(worker, date string) []domain.ScheduleRecord {
	return s.Snapshot().RecordsByWorkerDate(worker, date)
}

// RecordsByProcessDate returns the current records of process on date.
func (s *Store) RecordsByProcessDate(process, date string) []domain.ScheduleRecord {
	return s.Snapshot().RecordsByProcessDate(process, date)
}
