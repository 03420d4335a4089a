// Package population holds the DataUSA population record type and the pure
// helpers the views derive from a fetched dataset.
package population

import "strconv"

// Record is one (state, year) population observation.
type Record struct {
	StateID    string
	State      string
	YearID     int
	Year       int
	Population int
	Slug       string
}

// Point is a single bar in a chart series.
type Point struct {
	Label string
	Value int
}

// UniqueStateNames returns each state name once, in first-seen order.
func UniqueStateNames(records []Record) []string {
	names := make([]string, 0)
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.State]; ok {
			continue
		}
		seen[rec.State] = struct{}{}
		names = append(names, rec.State)
	}
	return names
}

// FilterByState returns the records for name, preserving their relative order.
func FilterByState(name string, records []Record) []Record {
	out := make([]Record, 0)
	for _, rec := range records {
		if rec.State == name {
			out = append(out, rec)
		}
	}
	return out
}

// ChartSeries maps the records for name to chart points. The API lists the
// newest year first, so the series is reversed to plot oldest to newest.
func ChartSeries(name string, records []Record) []Point {
	if name == "" {
		return nil
	}
	filtered := FilterByState(name, records)
	points := make([]Point, len(filtered))
	for i, rec := range filtered {
		points[len(filtered)-1-i] = Point{
			Label: strconv.Itoa(rec.Year),
			Value: rec.Population,
		}
	}
	return points
}

// Contains reports whether name is present in list.
func Contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

// Latest returns the record with the greatest Year for name.
func Latest(name string, records []Record) (Record, bool) {
	var (
		best  Record
		found bool
	)
	for _, rec := range records {
		if rec.State != name {
			continue
		}
		if !found || rec.Year > best.Year {
			best = rec
			found = true
		}
	}
	return best, found
}

// Clone returns an independent copy of records.
func Clone(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}
