package engine

import (
	"fmt"
	"maps"
	"slices"
)

// Amount is a single observation for a region on a date.
type Amount float64

// NullAmount marks a date with no recorded observation (an empty cell).
// Observations are non-negative counts; under ParseLenient a literal "-1"
// cell reads back as null.
const NullAmount Amount = -1

// IsNull reports whether a is the null sentinel.
func (a Amount) IsNull() bool { return a == NullAmount }

// RegionSeries holds one region's amounts keyed by date string.
type RegionSeries struct {
	name   string
	column int
	byDate map[string]Amount
}

// NewRegionSeries creates an empty series for the region declared at the
// given header column.
func NewRegionSeries(name string, column int) *RegionSeries {
	return &RegionSeries{
		name:   name,
		column: column,
		byDate: make(map[string]Amount),
	}
}

// Set stores amount for date, replacing any earlier value.
func (r *RegionSeries) Set(date string, amount Amount) {
	r.byDate[date] = amount
}

// Get returns the amount recorded for date.
func (r *RegionSeries) Get(date string) (Amount, error) {
	a, ok := r.byDate[date]
	if !ok {
		return 0, fmt.Errorf("%w: date %q in region %q", ErrKeyNotFound, date, r.name)
	}
	return a, nil
}

// Dates returns every date with a recorded amount, in no particular order.
// Callers that need chronological order should use SortedDates.
func (r *RegionSeries) Dates() []string {
	return slices.Collect(maps.Keys(r.byDate))
}

// SortedDates returns the dates in ascending lexicographic order, which is
// chronological for ISO dates.
func (r *RegionSeries) SortedDates() []string {
	return slices.Sorted(maps.Keys(r.byDate))
}

// Highest returns the largest non-null amount, or 0 if there is none.
func (r *RegionSeries) Highest() Amount {
	var highest Amount
	for _, a := range r.byDate {
		if a.IsNull() {
			continue
		}
		if a > highest {
			highest = a
		}
	}
	return highest
}

func (r *RegionSeries) Size() int        { return len(r.byDate) }
func (r *RegionSeries) Name() string     { return r.name }
func (r *RegionSeries) ColumnIndex() int { return r.column }

// Clone returns a detached copy. Writes to the copy never reach the Dataset
// it came from; mutate through the handle from Dataset.RegionByName instead.
func (r *RegionSeries) Clone() *RegionSeries {
	return &RegionSeries{
		name:   r.name,
		column: r.column,
		byDate: maps.Clone(r.byDate),
	}
}
