// Package duedate canonicalizes user-supplied due dates.
//
// Two forms are ever stored: a bare date (YYYY-MM-DD) and a date-time with a
// 24-hour clock (YYYY-MM-DD HH:MM). Values are naive wall-clock times with no
// zone attached.
package duedate

import (
	"strings"
	"time"
)

const (
	// DateTimeLayout is the canonical date-time form.
	DateTimeLayout = "2006-01-02 15:04"
	// DateLayout is the canonical date-only form.
	DateLayout = "2006-01-02"
)

// Normalize parses raw as a date-time first and as a bare date second and
// returns it re-rendered in the matching canonical layout. ok is false when
// neither layout accepts the input.
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if t, err := time.Parse(DateTimeLayout, raw); err == nil {
		return t.Format(DateTimeLayout), true
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), true
	}

	return "", false
}

// Parse interprets an already canonical value. hasTime reports whether the
// value carried a clock component.
func Parse(canonical string) (t time.Time, hasTime bool, ok bool) {
	if t, err := time.Parse(DateTimeLayout, canonical); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(DateLayout, canonical); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}
