package engine

import (
	"cmp"
	"maps"
	"slices"
)

// RegionHighest pairs a region with its highest amount.
type RegionHighest struct {
	Region  string
	Highest Amount
}

// HighestInRegion returns the largest non-null amount recorded for region,
// or 0 if it has none.
func (d *Dataset) HighestInRegion(region string) (Amount, error) {
	r, err := d.RegionByName(region)
	if err != nil {
		return 0, err
	}
	return r.Highest(), nil
}

// HighestInDataset returns the largest amount over all regions. When
// includeAggregate is false the aggregate region is skipped.
func (d *Dataset) HighestInDataset(includeAggregate bool) Amount {
	var highest Amount
	for name, r := range d.regions {
		if !includeAggregate && name == d.aggregate {
			continue
		}
		if h := r.Highest(); h > highest {
			highest = h
		}
	}
	return highest
}

// TopRegions returns up to n regions ordered by highest amount, largest
// first; ties keep header order. n <= 0 returns all of them.
func (d *Dataset) TopRegions(n int, includeAggregate bool) []RegionHighest {
	out := make([]RegionHighest, 0, len(d.names))
	for _, name := range d.names {
		if !includeAggregate && name == d.aggregate {
			continue
		}
		out = append(out, RegionHighest{Region: name, Highest: d.regions[name].Highest()})
	}
	slices.SortStableFunc(out, func(a, b RegionHighest) int {
		return cmp.Compare(b.Highest, a.Highest)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Dates returns the sorted union of dates across all regions.
func (d *Dataset) Dates() []string {
	seen := make(map[string]struct{})
	for _, r := range d.regions {
		for date := range r.byDate {
			seen[date] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
