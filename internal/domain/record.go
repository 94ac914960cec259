package domain

// ScheduleRecord is one worker/process/time assignment on a given date.
// Date is YYYY-MM-DD, Start and End are zero-padded HH:MM.
type ScheduleRecord struct {
	ID      string
	Date    string
	Worker  string
	Process string
	Start   string
	End     string
	Note    string
	Color   string
}

// RecordPatch carries a partial update. Nil fields are left untouched.
// The record ID is never patched.
type RecordPatch struct {
	Date    *string
	Worker  *string
	Process *string
	Start   *string
	End     *string
	Note    *string
	Color   *string
}

// Apply returns a copy of r with the non-nil patch fields applied.
func (p RecordPatch) Apply(r ScheduleRecord) ScheduleRecord {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Worker != nil {
		r.Worker = *p.Worker
	}
	if p.Process != nil {
		r.Process = *p.Process
	}
	if p.Start != nil {
		r.Start = *p.Start
	}
	if p.End != nil {
		r.End = *p.End
	}
	if p.Note != nil {
		r.Note = *p.Note
	}
	if p.Color != nil {
		r.Color = *p.Color
	}
	return r
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Date == nil && p.Worker == nil && p.Process == nil &&
		p.Start == nil && p.End == nil && p.Note == nil && p.Color == nil
}

// Row is one raw, field-keyed row as split from the interchange text.
// Keys are lower-case column names.
type Row map[string]string

// Columns is the fixed output column order of the interchange format.
var Columns = []string{"date", "worker", "process", "start", "end", "id", "note"}
