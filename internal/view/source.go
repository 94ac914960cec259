// Package view derives read-only, display-ready projections from a store
// snapshot. Every function is pure: identical inputs give identical output.
package view

import "github.com/alexanderramin/shiftboard/internal/domain"

// Source is the read side of a store snapshot.
type Source interface {
	Workers() []string
	Processes() []string
	RecordsByDate(date string) []domain.ScheduleRecord
	RecordsByWorkerDate(worker, date string) []domain.ScheduleRecord
	RecordsByProcessDate(process, date string) []domain.ScheduleRecord
}
