package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/shiftboard/internal/db"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/repository"
	"github.com/alexanderramin/shiftboard/internal/rules"
	"github.com/alexanderramin/shiftboard/internal/store"
	"github.com/alexanderramin/shiftboard/internal/testutil"
)

const weekCSV = `date,worker,process,start,end,id,note
2026-02-02,佐藤,工程A,9:00,10:00,,
2026-02-02,佐藤,工程B,09:30,11:00,,
2026-02-02,鈴木,工程A,08:30,12:00,,
2026-02-03,,工程A,09:00,10:00,,
`

type fixture struct {
	svc   ScheduleService
	store *store.Store
	db    *sql.DB
}

type fixtureConfig struct {
	rules    rules.Config
	scheme   domain.IDScheme
	uow      func(database *sql.DB) db.UnitOfWork
	observer UseCaseObserver
}

type fixtureOption func(*fixtureConfig)

func withRules(cfg rules.Config) fixtureOption {
	return func(c *fixtureConfig) { c.rules = cfg }
}

func withScheme(s domain.IDScheme) fixtureOption {
	return func(c *fixtureConfig) { c.scheme = s }
}

func withUoW(fn func(database *sql.DB) db.UnitOfWork) fixtureOption {
	return func(c *fixtureConfig) { c.uow = fn }
}

func withObserver(o UseCaseObserver) fixtureOption {
	return func(c *fixtureConfig) { c.observer = o }
}

// newFixture wires a service over a fresh store. A nil database gets a new
// in-memory one.
func newFixture(t *testing.T, database *sql.DB, opts ...fixtureOption) fixture {
	t.Helper()
	if database == nil {
		database = testutil.NewTestDB(t)
	}
	cfg := fixtureConfig{
		rules:  rules.DefaultConfig(),
		scheme: domain.IDSchemeSequence,
		uow:    testutil.NewTestUoW,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	st := store.New()
	svc := NewScheduleService(st, cfg.rules, cfg.scheme,
		repository.NewSQLiteDatasetRepo(database), cfg.uow(database), cfg.observer)
	return fixture{svc: svc, store: st, db: database}
}

func importWeek(t *testing.T, f fixture) *ImportReport {
	t.Helper()
	report, err := f.svc.Import(context.Background(), strings.NewReader(weekCSV), "week6", "week6.csv")
	require.NoError(t, err)
	return report
}

func recordIDs(records []domain.ScheduleRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestImport_PartialSuccessStillLoads(t *testing.T) {
	f := newFixture(t, nil)

	report := importWeek(t, f)

	assert.Equal(t, 4, report.Rows)
	assert.Len(t, report.Records, 3)
	require.Len(t, report.RowIssues, 1)
	assert.Equal(t, "行5: workerが未入力です", report.RowIssues[0].Message)
	require.Len(t, report.ValidationIssues, 1)
	assert.Equal(t, domain.IssueOverlap, report.ValidationIssues[0].Kind)
	assert.False(t, report.Clean())

	snap := f.svc.Snapshot()
	assert.Equal(t, store.StateLoaded, snap.State())
	assert.Equal(t, "week6", snap.DatasetName())
	assert.False(t, snap.Dirty())
	assert.Equal(t, []string{"A20260202-0003", "A20260202-0001", "A20260202-0002"}, recordIDs(snap.Records()))
	assert.Equal(t, "佐藤", snap.UI().WeekWorker)
}

func TestImport_Refusals(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{"every row fails", "date,worker,process,start,end\n2026-02-02,,工程A,09:00,10:00\n", ErrNothingNormalized},
		{"structural error", "date,worker,process,start,end\n2026-02-02,佐藤\n", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.svc.Import(context.Background(), strings.NewReader(tc.csv), "x", "x.csv")
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, store.StateEmpty, f.svc.Snapshot().State())
		})
	}
}

func TestImport_HeaderOnlyLoadsEmptyDataset(t *testing.T) {
	f := newFixture(t, nil)
	report, err := f.svc.Import(context.Background(), strings.NewReader("date,worker,process,start,end\n"), "blank", "")
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.Equal(t, store.StateLoaded, f.svc.Snapshot().State())
	assert.Zero(t, f.svc.Snapshot().Len())
}

func TestImport_ReassignsDuplicateIDs(t *testing.T) {
	csv := `date,worker,process,start,end,id
2026-02-02,佐藤,工程A,09:00,10:00,X1
2026-02-02,鈴木,工程A,09:00,10:00,X1
`
	f := newFixture(t, nil)
	report, err := f.svc.Import(context.Background(), strings.NewReader(csv), "dup", "")
	require.NoError(t, err)

	require.Len(t, report.Reassigned, 1)
	assert.Equal(t, "X1", report.Reassigned[0].Old)
	assert.Equal(t, "A20260202-0001", report.Reassigned[0].New)
	assert.Equal(t, 2, f.svc.Snapshot().Len())
}

func TestCheck_DoesNotTouchStore(t *testing.T) {
	f := newFixture(t, nil)
	report, err := f.svc.Check(context.Background(), strings.NewReader(weekCSV), "week6.csv")
	require.NoError(t, err)
	assert.Len(t, report.Records, 3)
	assert.Equal(t, store.StateEmpty, f.svc.Snapshot().State())
}

func TestAddRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("generates id and commits", func(t *testing.T) {
		f := newFixture(t, nil)
		importWeek(t, f)

		added, err := f.svc.AddRecord(ctx, domain.ScheduleRecord{
			Date: "2026-02-02", Worker: " 田中 ", Process: "工程C", Start: "13:00", End: "14:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "A20260202-0004", added.ID)
		assert.Equal(t, "田中", added.Worker)

		snap := f.svc.Snapshot()
		assert.True(t, snap.Dirty())
		_, ok := snap.Record(added.ID)
		assert.True(t, ok)
	})

	t.Run("rejects without committing", func(t *testing.T) {
		tests := []struct {
			name     string
			rec      domain.ScheduleRecord
			wantKind domain.IssueKind
		}{
			{"before business hours",
				domain.ScheduleRecord{Date: "2026-02-02", Worker: "田中", Process: "工程C", Start: "08:00", End: "09:00"},
				domain.IssueBusinessHours},
			{"overlap",
				domain.ScheduleRecord{Date: "2026-02-02", Worker: "佐藤", Process: "工程C", Start: "10:30", End: "12:00"},
				domain.IssueOverlap},
			{"missing process",
				domain.ScheduleRecord{Date: "2026-02-02", Worker: "佐藤", Start: "15:00", End: "16:00"},
				domain.IssueFieldMissing},
			{"bad date",
				domain.ScheduleRecord{Date: "2026/02/02", Worker: "佐藤", Process: "工程C", Start: "15:00", End: "16:00"},
				domain.IssueDateFormat},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture(t, nil)
				importWeek(t, f)
				before := f.svc.Snapshot().Version()

				_, err := f.svc.AddRecord(ctx, tc.rec)

				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tc.wantKind, verr.Issues[0].Kind)

				var issue domain.Issue
				require.ErrorAs(t, err, &issue)
				assert.Equal(t, tc.wantKind, issue.Kind)

				assert.Equal(t, before, f.svc.Snapshot().Version())
			})
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		f := newFixture(t, nil)
		importWeek(t, f)
		_, err := f.svc.AddRecord(ctx, domain.ScheduleRecord{
			ID: "A20260202-0001", Date: "2026-02-03", Worker: "田中", Process: "工程C", Start: "13:00", End: "14:00",
		})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("content ids stay unique for identical records", func(t *testing.T) {
		allow := rules.DefaultConfig()
		allow.AllowOverlap = true
		f := newFixture(t, nil, withScheme(domain.IDSchemeContent), withRules(allow))
		rec := domain.ScheduleRecord{Date: "2026-02-02", Worker: "田中", Process: "工程C", Start: "13:00", End: "14:00"}

		first, err := f.svc.AddRecord(ctx, rec)
		require.NoError(t, err)
		second, err := f.svc.AddRecord(ctx, rec)
		require.NoError(t, err)

		assert.Equal(t, first.ID+"-2", second.ID)
	})
}

func TestUpdateRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	importWeek(t, f)

	_, err := f.svc.UpdateRecord(ctx, "nope", domain.RecordPatch{})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	note := "応援"
	end := "12:30"
	updated, err := f.svc.UpdateRecord(ctx, "A20260202-0003", domain.RecordPatch{Note: &note, End: &end})
	require.NoError(t, err, "a record never overlaps itself")
	assert.Equal(t, "12:30", updated.End)

	rec, _ := f.svc.Snapshot().Record("A20260202-0003")
	assert.Equal(t, "応援", rec.Note)

	worker := "佐藤"
	_, err = f.svc.UpdateRecord(ctx, "A20260202-0003", domain.RecordPatch{Worker: &worker})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.IssueOverlap, verr.Issues[0].Kind)
	rec, _ = f.svc.Snapshot().Record("A20260202-0003")
	assert.Equal(t, "鈴木", rec.Worker)
}

func TestDeleteRecord_SyncsWeekWorker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	importWeek(t, f)
	require.Equal(t, "佐藤", f.svc.Snapshot().UI().WeekWorker)

	require.NoError(t, f.svc.DeleteRecord(ctx, "A20260202-0001"))
	require.NoError(t, f.svc.DeleteRecord(ctx, "A20260202-0002"))

	assert.Equal(t, "鈴木", f.svc.Snapshot().UI().WeekWorker)

	require.NoError(t, f.svc.DeleteRecord(ctx, "A20260202-0003"))
	assert.Equal(t, "", f.svc.Snapshot().UI().WeekWorker)

	assert.ErrorIs(t, f.svc.DeleteRecord(ctx, "A20260202-0003"), ErrRecordNotFound)
}

func TestAssignCell(t *testing.T) {
	ctx := context.Background()

	t.Run("process mode diff", func(t *testing.T) {
		f := newFixture(t, nil)
		importWeek(t, f)

		res, err := f.svc.AssignCell(ctx, domain.GridByProcess, "工程A", "2026-02-02", []string{"佐藤", "田中", "田中"})
		require.NoError(t, err)

		assert.Equal(t, []string{"A20260202-0003"}, res.Removed)
		require.Len(t, res.Added, 1)
		added := res.Added[0]
		assert.Equal(t, "田中", added.Worker)
		assert.Equal(t, "工程A", added.Process)
		assert.Equal(t, "08:30", added.Start)
		assert.Equal(t, "18:30", added.End)
		assert.Empty(t, res.Rejected)

		workers := []string{}
		for _, r := range f.svc.Snapshot().RecordsByProcessDate("工程A", "2026-02-02") {
			workers = append(workers, r.Worker)
		}
		assert.ElementsMatch(t, []string{"佐藤", "田中"}, workers)
	})

	t.Run("worker mode rejects overlapping addition", func(t *testing.T) {
		f := newFixture(t, nil)
		importWeek(t, f)
		before := f.svc.Snapshot().Version()

		res, err := f.svc.AssignCell(ctx, domain.GridByWorker, "佐藤", "2026-02-02", []string{"工程A", "工程B", "工程C"})
		require.NoError(t, err)

		assert.False(t, res.Changed())
		require.NotEmpty(t, res.Rejected)
		assert.Equal(t, domain.IssueOverlap, res.Rejected[0].Kind)
		assert.Equal(t, before, f.svc.Snapshot().Version())
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.AssignCell(ctx, domain.GridByProcess, "工程A", "2026-13-01", []string{"佐藤"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		date       string
		start, end string
		wantStart  string
		wantEnd    string
		wantKind   domain.IssueKind
	}{
		{name: "rounds down to step", id: "A20260202-0003", start: "9:10", end: "10:20", wantStart: "09:00", wantEnd: "10:00"},
		{name: "collapsed range widens one step", id: "A20260202-0003", start: "13:05", end: "13:20", wantStart: "13:00", wantEnd: "13:30"},
		{name: "moves date", id: "A20260202-0001", date: "2026-02-04", start: "09:00", end: "10:00", wantStart: "09:00", wantEnd: "10:00"},
		{name: "overlap is rejected", id: "A20260202-0001", start: "10:00", end: "11:00", wantKind: domain.IssueOverlap},
		{name: "malformed time", id: "A20260202-0001", start: "ten", end: "11:00", wantKind: domain.IssueTimeFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			importWeek(t, f)

			moved, err := f.svc.Reschedule(ctx, tc.id, tc.date, tc.start, tc.end)
			if tc.wantKind != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tc.wantKind, verr.Issues[0].Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, moved.Start)
			assert.Equal(t, tc.wantEnd, moved.End)

			rec, ok := f.svc.Snapshot().Record(tc.id)
			require.True(t, ok)
			assert.Equal(t, moved, rec)
		})
	}

	f := newFixture(t, nil)
	_, err := f.svc.Reschedule(ctx, "missing", "", "09:00", "10:00")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)

	f := newFixture(t, database)
	importWeek(t, f)
	_, err := f.svc.AddRecord(ctx, domain.ScheduleRecord{
		Date: "2026-02-03", Worker: "田中", Process: "工程C", Start: "13:00", End: "14:00", Color: "#00ff00",
	})
	require.NoError(t, err)
	require.True(t, f.svc.Snapshot().Dirty())

	ds, err := f.svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "week6", ds.Name)
	assert.Equal(t, 4, ds.RecordCount)
	assert.False(t, f.svc.Snapshot().Dirty())
	_, saved := f.svc.Snapshot().LastSavedAt()
	assert.True(t, saved)

	other := newFixture(t, database)
	require.NoError(t, other.svc.Open(ctx, "week6"))
	assert.Equal(t, f.svc.Snapshot().Records(), other.svc.Snapshot().Records())
	assert.Equal(t, "week6.csv", other.svc.Snapshot().Source())

	list, err := other.svc.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, other.svc.DeleteDataset(ctx, "week6"))
	assert.ErrorIs(t, other.svc.Open(ctx, "week6"), repository.ErrNotFound)
	assert.Equal(t, store.StateEmpty, other.svc.Snapshot().State())
}

func TestOpen_MissingStillSelectsName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	err := f.svc.Open(ctx, "fresh")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.svc.AddRecord(ctx, domain.ScheduleRecord{
		Date: "2026-02-02", Worker: "佐藤", Process: "工程A", Start: "09:00", End: "10:00",
	})
	require.NoError(t, err)

	ds, err := f.svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", ds.Name)
}

func TestSave_WithoutDataset(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestSave_RollbackKeepsDirty(t *testing.T) {
	ctx := context.Background()
	errInjected := errors.New("disk full")
	f := newFixture(t, nil, withUoW(func(d *sql.DB) db.UnitOfWork {
		return &testutil.FailingUoW{DB: d, Match: "INSERT INTO records", FailOn: 1, Err: errInjected}
	}))
	importWeek(t, f)
	_, err := f.svc.AddRecord(ctx, domain.ScheduleRecord{
		Date: "2026-02-03", Worker: "田中", Process: "工程C", Start: "13:00", End: "14:00",
	})
	require.NoError(t, err)

	_, err = f.svc.Save(ctx)
	require.ErrorIs(t, err, errInjected)
	assert.True(t, f.svc.Snapshot().Dirty())

	_, err = repository.NewSQLiteDatasetRepo(f.db).GetByName(ctx, "week6")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t, nil)
	importWeek(t, f)

	var buf bytes.Buffer
	n, err := f.svc.ExportCSV(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,worker,process,start,end,id,note", lines[0])
	assert.Equal(t, "2026-02-02,鈴木,工程A,08:30,12:00,A20260202-0003,", lines[1])
}

func TestUseCaseObserver_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t, nil, withObserver(NewLogUseCaseObserver(&buf)))
	importWeek(t, f)

	_ = f.svc.DeleteRecord(context.Background(), "missing")

	out := buf.String()
	assert.Contains(t, out, "use_case=import")
	assert.Contains(t, out, "records=3")
	assert.Contains(t, out, "use_case=delete-record")
	assert.Contains(t, out, "success=false")
	assert.Contains(t, out, "level=WARN")
	assert.NotContains(t, out, "level=ERROR")
}
