package form

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "02-01-2006"

// ExpandDateRange produces the inclusive ordered day sequence between
// from and to in DD-MM-YYYY format. One side may be empty, in which case
// the other side yields a single-element sequence. A reversed range is an
// error, never silently swapped.
func ExpandDateRange(from, to string) ([]string, error) {
	if from == "" && to == "" {
		return nil, fmt.Errorf("at least one of from-date and to-date must be set")
	}
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}

	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from-date %q: %w", from, err)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid to-date %q: %w", to, err)
	}
	if start.After(end) {
		return nil, fmt.Errorf("from-date %s is after to-date %s", from, to)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}
