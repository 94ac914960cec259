package importer

import "github.com/alexanderramin/shiftboard/internal/domain"

// ToRows projects records onto plain rows keyed by the output columns.
// Color is not part of the interchange format and is dropped.
func ToRows(records []domain.ScheduleRecord) []domain.Row {
	rows := make([]domain.Row, len(records))
	for i, r := range records {
		rows[i] = domain.Row{
			"date":    r.Date,
			"worker":  r.Worker,
			"process": r.Process,
			"start":   r.Start,
			"end":     r.End,
			"id":      r.ID,
			"note":    r.Note,
		}
	}
	return rows
}
