package view

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftboard/internal/domain"
)

var weekdayLabels = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// GenerateDates lists the dates of the range containing anchor: the Monday
// based week, or every day of anchor's month.
func GenerateDates(anchor string, mode domain.RangeMode) ([]string, error) {
	t, err := domain.ParseDate(anchor)
	if err != nil {
		return nil, err
	}

	switch mode {
	case domain.RangeWeek:
		start := WeekStart(t)
		dates := make([]string, 7)
		for i := range dates {
			dates[i] = domain.FormatDate(start.AddDate(0, 0, i))
		}
		return dates, nil
	case domain.RangeMonth:
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		var dates []string
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			dates = append(dates, domain.FormatDate(d))
		}
		return dates, nil
	}
	return nil, fmt.Errorf("unknown range mode %q", mode)
}

// FormatDateHeader renders a column label such as "2/2(月)". Unparseable
// input is returned unchanged.
func FormatDateHeader(date string) string {
	t, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d(%s)", int(t.Month()), t.Day(), weekdayLabels[t.Weekday()])
}
