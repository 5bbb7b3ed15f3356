package dates

import (
	"strings"
	"time"
)

// Canonical export layouts
const (
	LayoutDayMonthYear     = "02-01-2006"  // DD-MM-YYYY
	LayoutDayMonthNameYear = "02-Jan-2006" // DD-MMM-YYYY
)

// parseLayouts covers the date spellings the vision service has been seen to
// return. Order matters: day-first layouts are tried before month-first ones.
var parseLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006/01/02",
	"20060102",
}

// Formatter normalizes heterogeneous date strings to one canonical layout
type Formatter struct {
	layout string
}

// NewFormatter creates a formatter targeting the given canonical layout.
// An empty layout falls back to DD-MMM-YYYY.
func NewFormatter(layout string) *Formatter {
	if layout == "" {
		layout = LayoutDayMonthNameYear
	}
	return &Formatter{layout: layout}
}

// ParseLayout maps a config string to a supported canonical layout
func ParseLayout(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DD-MM-YYYY":
		return LayoutDayMonthYear
	default:
		return LayoutDayMonthNameYear
	}
}

// Format returns raw reformatted to the canonical layout. Absent values come
// back empty, already-canonical values come back untouched, and values that
// fail to parse as a calendar date come back unchanged so no data is dropped.
func (f *Formatter) Format(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// time.Parse is lenient about padding ("5-Mar-1990" parses under
	// 02-Jan-2006), so only a round-trip counts as already canonical.
	if parsed, err := time.Parse(f.layout, trimmed); err == nil && parsed.Format(f.layout) == trimmed {
		return trimmed
	}

	for _, layout := range parseLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(f.layout)
		}
	}
	return raw
}
