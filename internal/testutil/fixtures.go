package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

var testRecordCounter atomic.Int64

// RecordOption customizes a fixture record.
type RecordOption func(*domain.ScheduleRecord)

func WithID(id string) RecordOption {
	return func(r *domain.ScheduleRecord) { r.ID = id }
}

func WithDate(date string) RecordOption {
	return func(r *domain.ScheduleRecord) { r.Date = date }
}

func WithProcess(process string) RecordOption {
	return func(r *domain.ScheduleRecord) { r.Process = process }
}

func WithTimes(start, end string) RecordOption {
	return func(r *domain.ScheduleRecord) {
		r.Start = start
		r.End = end
	}
}

func WithNote(note string) RecordOption {
	return func(r *domain.ScheduleRecord) { r.Note = note }
}

func WithColor(color string) RecordOption {
	return func(r *domain.ScheduleRecord) { r.Color = color }
}

// NewTestRecord returns a valid record for worker on DefaultDate, 09:00-10:00
// in 工程A, with a unique T-prefixed id.
func NewTestRecord(worker string, opts ...RecordOption) domain.ScheduleRecord {
	r := domain.ScheduleRecord{
		ID:      fmt.Sprintf("T%04d", testRecordCounter.Add(1)),
		Date:    domain.DefaultDate,
		Worker:  worker,
		Process: "工程A",
		Start:   "09:00",
		End:     "10:00",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewTestRow builds a raw CSV row for the given values.
func NewTestRow(date, worker, process, start, end string) domain.Row {
	return domain.Row{
		"date":    date,
		"worker":  worker,
		"process": process,
		"start":   start,
		"end":     end,
	}
}
