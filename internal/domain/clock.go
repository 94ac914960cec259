package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

var (
	looseTimePattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	strictTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	datePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeTime trims s and zero-pads a single-digit hour (H:MM -> HH:MM).
// Anything not shaped like a time is returned trimmed but otherwise unchanged.
func NormalizeTime(s string) string {
	trimmed := strings.TrimSpace(s)
	m := looseTimePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return hour + ":" + m[2]
}

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsValidTime reports whether s is HH:MM with hour 00-23 and minute 00-59.
func IsValidTime(s string) bool {
	if !strictTimePattern.MatchString(s) {
		return false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h <= 23 && m <= 59
}

// TimeToMinutes converts a valid HH:MM into minutes since midnight.
// Malformed input yields -1.
func TimeToMinutes(s string) int {
	if !IsValidTime(s) {
		return -1
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}

// MinutesToTime formats minutes since midnight as HH:MM. No wraparound is
// applied; callers keep m within [0,1439].
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
