package view

import (
	"sort"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/rules"
)

// Event is a record as placed on a timeline.
type Event struct {
	ID      string
	Date    string
	Worker  string
	Process string
	Start   string
	End     string
	Note    string
	Color   string
}

func eventOf(r domain.ScheduleRecord) Event {
	return Event{
		ID:      r.ID,
		Date:    r.Date,
		Worker:  r.Worker,
		Process: r.Process,
		Start:   r.Start,
		End:     r.End,
		Note:    r.Note,
		Color:   r.Color,
	}
}

// Gantt is the daily timeline of every worker.
type Gantt struct {
	Date    string
	Workers []string
	Events  []Event
}

// GenerateGanttData returns all events on date. Workers with at least one
// event that day come first; relative order is kept within both groups.
func GenerateGanttData(src Source, date string) Gantt {
	records := src.RecordsByDate(date)

	busy := make(map[string]bool, len(records))
	events := make([]Event, len(records))
	for i, r := range records {
		busy[r.Worker] = true
		events[i] = eventOf(r)
	}

	all := src.Workers()
	workers := make([]string, 0, len(all))
	for _, w := range all {
		if busy[w] {
			workers = append(workers, w)
		}
	}
	for _, w := range all {
		if !busy[w] {
			workers = append(workers, w)
		}
	}

	return Gantt{Date: date, Workers: workers, Events: events}
}

// WorkerWeek is the per-day timeline of a single worker over one week.
type WorkerWeek struct {
	Worker       string
	Dates        []string
	EventsByDate map[string][]Event
}

// GenerateWorkerWeek lists worker's events for each day of the Monday based
// week containing anchor, each day sorted by start time. A blank worker
// yields empty days.
func GenerateWorkerWeek(src Source, anchor, worker string) (WorkerWeek, error) {
	dates, err := GenerateDates(anchor, domain.RangeWeek)
	if err != nil {
		return WorkerWeek{}, err
	}

	week := WorkerWeek{
		Worker:       worker,
		Dates:        dates,
		EventsByDate: make(map[string][]Event, len(dates)),
	}
	for _, date := range dates {
		events := []Event{}
		if worker != "" {
			for _, r := range src.RecordsByWorkerDate(worker, date) {
				events = append(events, eventOf(r))
			}
		}
		sort.SliceStable(events, func(i, j int) bool { return events[i].Start < events[j].Start })
		week.EventsByDate[date] = events
	}
	return week, nil
}

// GenerateTimeSlots lists HH:MM labels from business start up to (not
// including) business end in time-step increments.
func GenerateTimeSlots(cfg rules.Config) []string {
	start := domain.TimeToMinutes(cfg.BusinessStart)
	end := domain.TimeToMinutes(cfg.BusinessEnd)
	if cfg.TimeStep <= 0 || start < 0 || end < 0 {
		return nil
	}
	var slots []string
	for m := start; m < end; m += cfg.TimeStep {
		slots = append(slots, domain.MinutesToTime(m))
	}
	return slots
}

// Offset returns the position of t on a timeline starting at business start,
// as a fraction of the business window clamped to [0,1].
func Offset(cfg rules.Config, t string) float64 {
	start := domain.TimeToMinutes(cfg.BusinessStart)
	end := domain.TimeToMinutes(cfg.BusinessEnd)
	m := domain.TimeToMinutes(t)
	if end <= start || m < 0 {
		return 0
	}
	f := float64(m-start) / float64(end-start)
	return max(0, min(1, f))
}
