// Package convert reshapes long-format observation exports (one row per
// region and date) into the wide layout the engine imports.
package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// DateHeader is the first header cell of the wide output.
const DateHeader = "Date"

type Options struct {
	RegionColumn string // e.g. "Entity"
	DateColumn   string // e.g. "Date"
	ValueColumn  string // e.g. "Cumulative total"
}

func (o Options) withDefaults() Options {
	if o.RegionColumn == "" {
		o.RegionColumn = "Entity"
	}
	if o.DateColumn == "" {
		o.DateColumn = "Date"
	}
	return o
}

// Stats describes one conversion.
type Stats struct {
	Rows         int // data rows read
	Skipped      int // rows without a date or region
	Duplicates   int // later observations for an already seen (date, region)
	Dates        int
	Regions      int
	Observations int
}

type key struct{ date, region string }

// LongToWide reads long-format CSV from r and writes a wide table to w:
// header "Date,<region>..." then one row per date, both sorted ascending.
// Missing observations are written as empty cells. When a (date, region)
// pair appears more than once the first value is kept.
func LongToWide(r io.Reader, w io.Writer, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	var st Stats
	if opts.ValueColumn == "" {
		return st, errors.New("value column is required")
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return st, errors.New("input is empty")
	}
	if err != nil {
		return st, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	regionIdx, err := columnIndex(header, opts.RegionColumn)
	if err != nil {
		return st, err
	}
	dateIdx, err := columnIndex(header, opts.DateColumn)
	if err != nil {
		return st, err
	}
	valueIdx, err := columnIndex(header, opts.ValueColumn)
	if err != nil {
		return st, err
	}
	width := max(regionIdx, dateIdx, valueIdx) + 1

	values := make(map[key]string)
	dateSet := make(map[string]struct{})
	regionSet := make(map[string]struct{})

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, fmt.Errorf("read row: %w", err)
		}
		st.Rows++
		if len(rec) < width {
			st.Skipped++
			continue
		}
		date := strings.TrimSpace(rec[dateIdx])
		region := cleanRegion(rec[regionIdx])
		if date == "" || region == "" {
			st.Skipped++
			continue
		}
		dateSet[date] = struct{}{}
		regionSet[region] = struct{}{}

		k := key{date, region}
		if _, seen := values[k]; seen {
			st.Duplicates++
			continue
		}
		values[k] = cleanValue(rec[valueIdx])
	}

	dates := sortedKeys(dateSet)
	regions := sortedKeys(regionSet)
	st.Dates, st.Regions, st.Observations = len(dates), len(regions), len(values)

	cw := csv.NewWriter(w)
	row := make([]string, 0, len(regions)+1)
	row = append(row, DateHeader)
	row = append(row, regions...)
	if err := cw.Write(row); err != nil {
		return st, fmt.Errorf("write header: %w", err)
	}
	for _, date := range dates {
		row = append(row[:0], date)
		for _, region := range regions {
			row = append(row, values[key{date, region}])
		}
		if err := cw.Write(row); err != nil {
			return st, fmt.Errorf("write %s: %w", date, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return st, fmt.Errorf("flush: %w", err)
	}
	return st, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found in header", name)
}

// cleanRegion drops characters the wide format cannot carry unquoted.
func cleanRegion(s string) string {
	s = strings.NewReplacer(",", "", `"`, "", "\r", "", "\n", "").Replace(s)
	return strings.TrimSpace(s)
}

func cleanValue(s string) string {
	s = strings.NewReplacer(",", "", `"`, "").Replace(s)
	return strings.TrimSpace(s)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
