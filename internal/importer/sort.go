package importer

import (
	"sort"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

// SortRecords returns a copy of records ordered by date, start, then worker.
// Plain string comparison is correct because dates and times are zero-padded.
func SortRecords(records []domain.ScheduleRecord) []domain.ScheduleRecord {
	out := make([]domain.ScheduleRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Worker < b.Worker
	})
	return out
}
