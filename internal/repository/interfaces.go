package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// DatasetRepo persists named datasets and their records.
type DatasetRepo interface {
	// Save creates the dataset if its name is new, otherwise overwrites it.
	// The stored records are replaced wholesale and keep their given order.
	Save(ctx context.Context, ds *domain.Dataset, records []domain.ScheduleRecord) error
	GetByName(ctx context.Context, name string) (*domain.Dataset, error)
	LoadRecords(ctx context.Context, datasetID string) ([]domain.ScheduleRecord, error)
	List(ctx context.Context) ([]*domain.Dataset, error)
	Delete(ctx context.Context, name string) error
}
