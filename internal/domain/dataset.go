package domain

import "time"

// Dataset is a named, saved collection of schedule records.
type Dataset struct {
	ID          string
	Name        string
	Source      string
	RecordCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
