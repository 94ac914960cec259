// Package export renders schedule records for other calendar tools.
package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

const productID = "-//shiftboard//schedule export//JA"

// ICSOptions controls calendar rendering.
type ICSOptions struct {
	// Location interprets the wall-clock dates and times of records.
	// Nil means time.Local.
	Location *time.Location
	// Stamp is written as DTSTAMP on every event. Zero means now.
	Stamp time.Time
	// Worker limits the export to one worker's records when set.
	Worker string
}

// WriteICS writes records as a VCALENDAR with one VEVENT per record. Events
// carry the record id as UID so re-exports update rather than duplicate.
func WriteICS(w io.Writer, records []domain.ScheduleRecord, opts ICSOptions) (int, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	n := 0
	for _, rec := range records {
		if opts.Worker != "" && rec.Worker != opts.Worker {
			continue
		}
		start, err := wallClock(rec.Date, rec.Start, loc)
		if err != nil {
			return n, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		end, err := wallClock(rec.Date, rec.End, loc)
		if err != nil {
			return n, fmt.Errorf("record %s: %w", rec.ID, err)
		}

		ev := cal.AddEvent(rec.ID + "@shiftboard")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(fmt.Sprintf("%s %s", rec.Process, rec.Worker))
		if rec.Note != "" {
			ev.SetDescription(rec.Note)
		}
		if rec.Color != "" {
			ev.SetProperty(ical.ComponentProperty("COLOR"), rec.Color)
		}
		n++
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return n, fmt.Errorf("writing calendar: %w", err)
	}
	return n, nil
}

func wallClock(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout+" 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %s: %w", date, clock, err)
	}
	return t, nil
}
