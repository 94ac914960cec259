package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func r(id, date, worker, process, start, end string) domain.ScheduleRecord {
	return domain.ScheduleRecord{ID: id, Date: date, Worker: worker, Process: process, Start: start, End: end}
}

func sample() []domain.ScheduleRecord {
	return []domain.ScheduleRecord{
		r("3", "2026-02-03", "佐藤", "工程B", "09:00", "10:00"),
		r("2", "2026-02-02", "田中", "工程A", "10:00", "11:00"),
		r("1", "2026-02-02", "佐藤", "工程A", "08:30", "10:00"),
		r("4", "2026-02-02", "鈴木", "工程C", "08:30", "09:00"),
	}
}

func ids(records []domain.ScheduleRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.ID
	}
	return out
}

func TestNew_Empty(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	assert.Equal(t, StateEmpty, snap.State())
	assert.Zero(t, snap.Len())
	assert.Equal(t, domain.DefaultDate, snap.UI().AnchorDate)
	assert.Empty(t, snap.Workers())
}

func TestLoadRecords_SortsAndIndexes(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "feb.csv", "/tmp/feb.csv")
	snap := s.Snapshot()

	assert.Equal(t, StateLoaded, snap.State())
	assert.Equal(t, []string{"1", "4", "2", "3"}, ids(snap.Records()))
	assert.Equal(t, []string{"佐藤", "田中", "鈴木"}, snap.Workers())
	assert.Equal(t, []string{"工程A", "工程B", "工程C"}, snap.Processes())
	assert.Equal(t, "feb.csv", snap.DatasetName())
	assert.Equal(t, "/tmp/feb.csv", snap.Source())
	assert.False(t, snap.Dirty())
	assert.Equal(t, "佐藤", snap.UI().WeekWorker)
}

func TestLoadRecords_ByDateMatchesFilter(t *testing.T) {
	s := New()
	records := sample()
	s.LoadRecords(records, "x", "")

	for _, date := range []string{"2026-02-02", "2026-02-03", "2026-02-04"} {
		var want []string
		for _, rec := range s.Snapshot().Records() {
			if rec.Date == date {
				want = append(want, rec.ID)
			}
		}
		got := s.RecordsByDate(date)
		if want == nil {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, ids(got), date)
	}
}

func TestLoadRecords_ResetsUIDates(t *testing.T) {
	s := New(WithDefaultDate("2026-03-02"))
	other := "2026-05-05"
	filter := "工程"
	s.SetUI(domain.UIPatch{AnchorDate: &other, GanttDate: &other, FilterText: &filter})

	s.LoadRecords(nil, "empty", "")
	ui := s.Snapshot().UI()

	assert.Equal(t, "2026-03-02", ui.AnchorDate)
	assert.Equal(t, "2026-03-02", ui.GanttDate)
	assert.Equal(t, "工程", ui.FilterText)
	assert.Equal(t, "", ui.WeekWorker)
}

func TestLookups(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")

	assert.Equal(t, []string{"1"}, ids(s.RecordsByWorkerDate("佐藤", "2026-02-02")))
	assert.Equal(t, []string{"1", "2"}, ids(s.RecordsByProcessDate("工程A", "2026-02-02")))
	assert.Empty(t, s.RecordsByWorkerDate("nobody", "2026-02-02"))

	rec, ok := s.Snapshot().Record("4")
	require.True(t, ok)
	assert.Equal(t, "鈴木", rec.Worker)
}

func TestResolve_DropsDanglingIDs(t *testing.T) {
	snap := &Snapshot{
		byID:   map[string]domain.ScheduleRecord{"a": r("a", "2026-02-02", "w", "p", "09:00", "10:00")},
		byDate: map[string][]string{"2026-02-02": {"a", "gone"}},
	}
	assert.Equal(t, []string{"a"}, ids(snap.RecordsByDate("2026-02-02")))
}

func TestAddRecord(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	s.AddRecord(r("5", "2026-02-02", "阿部", "工程D", "08:30", "09:00"))
	snap := s.Snapshot()

	assert.True(t, snap.Dirty())
	assert.Equal(t, []string{"1", "4", "5", "2", "3"}, ids(snap.Records()))
	assert.Contains(t, snap.Workers(), "阿部")
	assert.Equal(t, []string{"5"}, ids(snap.RecordsByWorkerDate("阿部", "2026-02-02")))
}

func TestAddRecord_FromEmpty(t *testing.T) {
	s := New()
	s.AddRecord(r("1", "2026-02-02", "田中", "工程A", "09:00", "10:00"))

	assert.Equal(t, StateLoaded, s.Snapshot().State())
	assert.Equal(t, 1, s.Snapshot().Len())
}

func TestUpdateRecord(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	worker := "田中"
	start := "11:00"
	end := "12:00"
	s.UpdateRecord("1", domain.RecordPatch{Worker: &worker, Start: &start, End: &end})
	snap := s.Snapshot()

	rec, _ := snap.Record("1")
	assert.Equal(t, "田中", rec.Worker)
	assert.Equal(t, "11:00", rec.Start)
	assert.Equal(t, "工程A", rec.Process)
	assert.True(t, snap.Dirty())
	assert.Empty(t, snap.RecordsByWorkerDate("佐藤", "2026-02-02"), "old worker index entry removed")
	assert.Equal(t, []string{"2", "1"}, ids(snap.RecordsByWorkerDate("田中", "2026-02-02")))
}

func TestUpdateRecord_UnknownIDIsNoop(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	calls := 0
	s.Subscribe(func(*Snapshot) error { calls++; return nil })
	before := s.Snapshot()

	start := "09:00"
	s.UpdateRecord("missing", domain.RecordPatch{Start: &start})

	assert.Same(t, before, s.Snapshot())
	assert.False(t, s.Snapshot().Dirty())
	assert.Zero(t, calls)
}

func TestDeleteRecord(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	s.DeleteRecord("4")
	snap := s.Snapshot()

	_, ok := snap.Record("4")
	assert.False(t, ok)
	assert.NotContains(t, snap.Workers(), "鈴木")
	assert.NotContains(t, snap.Processes(), "工程C")
	assert.True(t, snap.Dirty())

	s.DeleteRecord("4")
	assert.Equal(t, 3, s.Snapshot().Len())
}

func TestSetUI_NotifiesWithoutTouchingRecords(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	var got *Snapshot
	s.Subscribe(func(snap *Snapshot) error { got = snap; return nil })

	mode := domain.GridByWorker
	s.SetUI(domain.UIPatch{GridMode: &mode})

	require.NotNil(t, got)
	assert.Equal(t, domain.GridByWorker, got.UI().GridMode)
	assert.Equal(t, 4, got.Len())
	assert.False(t, got.Dirty())
}

func TestMarkSaved(t *testing.T) {
	at := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return at }))
	s.LoadRecords(sample(), "x", "")
	s.DeleteRecord("1")
	require.True(t, s.Snapshot().Dirty())

	s.MarkSaved()
	snap := s.Snapshot()

	assert.False(t, snap.Dirty())
	saved, ok := snap.LastSavedAt()
	assert.True(t, ok)
	assert.Equal(t, at, saved)
	assert.Equal(t, 3, snap.Len())
}

func TestReset(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	s.Reset()
	snap := s.Snapshot()

	assert.Equal(t, StateEmpty, snap.State())
	assert.Zero(t, snap.Len())
	assert.Empty(t, snap.RecordsByDate("2026-02-02"))
}

func TestSnapshots_AreIsolated(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	old := s.Snapshot()

	s.DeleteRecord("1")

	assert.Equal(t, 4, old.Len())
	_, ok := old.Record("1")
	assert.True(t, ok)
	assert.Equal(t, []string{"1"}, ids(old.RecordsByWorkerDate("佐藤", "2026-02-02")))
	assert.Greater(t, s.Snapshot().Version(), old.Version())

	recs := old.Records()
	recs[0].Worker = "mutated"
	again, _ := old.Record(recs[0].ID)
	assert.NotEqual(t, "mutated", again.Worker)
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	s := New()
	var order []string
	unsubA := s.Subscribe(func(*Snapshot) error { order = append(order, "a"); return nil })
	s.Subscribe(func(*Snapshot) error { order = append(order, "b"); return nil })

	s.LoadRecords(sample(), "x", "")
	unsubA()
	unsubA()
	s.MarkSaved()

	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestSubscribe_ErrorIsolation(t *testing.T) {
	var reported []error
	s := New(WithErrorHandler(func(err error) { reported = append(reported, err) }))

	delivered := 0
	s.Subscribe(func(*Snapshot) error { return errors.New("boom") })
	s.Subscribe(func(*Snapshot) error { panic("kaboom") })
	s.Subscribe(func(*Snapshot) error { delivered++; return nil })

	s.LoadRecords(sample(), "x", "")

	assert.Equal(t, 1, delivered)
	require.Len(t, reported, 2)
	assert.Contains(t, reported[0].Error(), "boom")
	assert.Contains(t, reported[1].Error(), "panicked: kaboom")
}

func TestSubscribe_ObservesConsistentIndexes(t *testing.T) {
	s := New()
	s.Subscribe(func(snap *Snapshot) error {
		for _, rec := range snap.Records() {
			found := false
			for _, other := range snap.RecordsByWorkerDate(rec.Worker, rec.Date) {
				if other.ID == rec.ID {
					found = true
				}
			}
			if !found {
				return errors.New("index out of sync for " + rec.ID)
			}
		}
		return nil
	})
	var failures []error
	s.onError = func(err error) { failures = append(failures, err) }

	s.LoadRecords(sample(), "x", "")
	s.AddRecord(r("9", "2026-02-02", "田中", "工程A", "12:00", "13:00"))
	worker := "鈴木"
	s.UpdateRecord("9", domain.RecordPatch{Worker: &worker})
	s.DeleteRecord("2")

	assert.Empty(t, failures)
}

func TestSubscribe_ConcurrentCommitsArriveInOrder(t *testing.T) {
	s := New()
	var (
		last       uint64
		outOfOrder int
		delivered  int
	)
	s.Subscribe(func(snap *Snapshot) error {
		if snap.Version() <= last {
			outOfOrder++
		}
		last = snap.Version()
		delivered++
		return nil
	})

	const writers, perWriter = 8, 500
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				filter := fmt.Sprintf("w%d-%d", w, i)
				s.SetUI(domain.UIPatch{FilterText: &filter})
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, outOfOrder)
	assert.Equal(t, writers*perWriter, delivered)
	assert.Equal(t, s.Snapshot().Version(), last)
}

func TestDeleteRecord_ConcurrentDeletesPublishOnce(t *testing.T) {
	s := New()
	s.LoadRecords(sample(), "x", "")
	loaded := s.Snapshot().Version()

	notified := 0
	s.Subscribe(func(*Snapshot) error { notified++; return nil })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.DeleteRecord("2")
		}()
	}
	wg.Wait()

	worker := "鈴木"
	s.UpdateRecord("2", domain.RecordPatch{Worker: &worker})

	snap := s.Snapshot()
	assert.Equal(t, 1, notified)
	assert.Equal(t, loaded+1, snap.Version())
	_, ok := snap.Record("2")
	assert.False(t, ok)
	assert.Len(t, snap.Records(), len(sample())-1)
}
