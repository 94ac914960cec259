package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/shiftboard/internal/db"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/export"
	"github.com/alexanderramin/shiftboard/internal/importer"
	"github.com/alexanderramin/shiftboard/internal/repository"
)

// Open loads the named dataset into the store. When no such dataset is
// saved the store is reset, the name is still selected for the next Save,
// and an error wrapping repository.ErrNotFound is returned.
func (s *scheduleService) Open(ctx context.Context, name string) (err error) {
	uc := s.begin("open-dataset", map[string]any{"dataset": name})
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = name
	ds, err := s.datasets.GetByName(ctx, name)
	if err != nil {
		s.store.Reset()
		return err
	}
	records, err := s.datasets.LoadRecords(ctx, ds.ID)
	if err != nil {
		return fmt.Errorf("loading dataset %q: %w", name, err)
	}
	uc.set("records", len(records))

	s.store.LoadRecords(records, ds.Name, ds.Source)
	return nil
}

// Save writes the current records to the selected dataset in one
// transaction and clears the dirty flag.
func (s *scheduleService) Save(ctx context.Context) (saved *domain.Dataset, err error) {
	uc := s.begin("save-dataset", nil)
	defer func() { uc.done(ctx, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	uc.set("dataset", s.dataset)
	if s.dataset == "" {
		return nil, ErrNoDataset
	}
	snap := s.store.Snapshot()
	records := snap.Records()
	ds := &domain.Dataset{Name: s.dataset, Source: snap.Source()}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteDatasetRepo(tx).Save(ctx, ds, records)
	})
	if err != nil {
		return nil, fmt.Errorf("saving dataset %q: %w", s.dataset, err)
	}
	uc.set("records", len(records))

	s.store.MarkSaved()
	return ds, nil
}

func (s *scheduleService) ListDatasets(ctx context.Context) ([]*domain.Dataset, error) {
	return s.datasets.List(ctx)
}

func (s *scheduleService) DeleteDataset(ctx context.Context, name string) (err error) {
	uc := s.begin("delete-dataset", map[string]any{"dataset": name})
	defer func() { uc.done(ctx, err) }()

	return s.datasets.Delete(ctx, name)
}

func (s *scheduleService) ExportCSV(ctx context.Context, w io.Writer) (n int, err error) {
	uc := s.begin("export-csv", nil)
	defer func() { uc.done(ctx, err) }()

	records := s.store.Snapshot().Records()
	if err := importer.WriteCSV(w, records); err != nil {
		return 0, err
	}
	uc.set("records", len(records))
	return len(records), nil
}

func (s *scheduleService) ExportICS(ctx context.Context, w io.Writer, opts export.ICSOptions) (n int, err error) {
	uc := s.begin("export-ics", map[string]any{"worker": opts.Worker})
	defer func() { uc.done(ctx, err) }()

	n, err = export.WriteICS(w, s.store.Snapshot().Records(), opts)
	uc.set("events", n)
	return n, err
}
