package service

import (
	"sync"
	"time"

	"github.com/alexanderramin/shiftboard/internal/db"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/importer"
	"github.com/alexanderramin/shiftboard/internal/repository"
	"github.com/alexanderramin/shiftboard/internal/rules"
	"github.com/alexanderramin/shiftboard/internal/store"
)

type scheduleService struct {
	// mu serializes validate-then-commit sequences.
	mu         sync.Mutex
	store      *store.Store
	engine     *rules.Engine
	normalizer *importer.Normalizer
	datasets   repository.DatasetRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
	now        func() time.Time

	dataset string
}

func NewScheduleService(
	st *store.Store,
	cfg rules.Config,
	scheme domain.IDScheme,
	datasets repository.DatasetRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		store:      st,
		engine:     rules.NewEngine(cfg, st),
		normalizer: importer.NewNormalizer(scheme),
		datasets:   datasets,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
		now:        time.Now,
	}
}

func (s *scheduleService) Snapshot() *store.Snapshot { return s.store.Snapshot() }

func (s *scheduleService) Subscribe(fn store.Subscriber) func() { return s.store.Subscribe(fn) }

func (s *scheduleService) Rules() rules.Config { return s.engine.Config() }

func (s *scheduleService) SetUI(patch domain.UIPatch) { s.store.SetUI(patch) }

// syncWeekWorker keeps the week view's worker pointing at a live worker,
// falling back to the first one (or blank when none remain).
func (s *scheduleService) syncWeekWorker() {
	snap := s.store.Snapshot()
	workers := snap.Workers()
	current := snap.UI().WeekWorker
	for _, w := range workers {
		if w == current {
			return
		}
	}
	next := ""
	if len(workers) > 0 {
		next = workers[0]
	}
	if next != current {
		s.store.SetUI(domain.UIPatch{WeekWorker: &next})
	}
}

func (s *scheduleService) validate(rec domain.ScheduleRecord, excludeID string) error {
	issues := requireFields(rec)
	if len(issues) == 0 {
		issues = s.engine.ValidateRecord(rec, excludeID).Issues
	}
	if len(issues) > 0 {
		return &ValidationError{RecordID: rec.ID, Issues: issues}
	}
	return nil
}

func requireFields(rec domain.ScheduleRecord) domain.Issues {
	var issues domain.Issues
	for _, f := range []struct{ name, value string }{
		{"date", rec.Date}, {"worker", rec.Worker}, {"process", rec.Process},
		{"start", rec.Start}, {"end", rec.End},
	} {
		if f.value == "" {
			issues = append(issues, domain.Issue{Kind: domain.IssueFieldMissing, Field: f.name, RecordID: rec.ID,
				Message: f.name + "が未入力です"})
		}
	}
	return issues
}
