package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"covidsonif/internal/csvline"

	"github.com/google/uuid"
)

// DefaultAggregateRegion is the region whose values roll up all others.
const DefaultAggregateRegion = "World"

// maxReportedIssues caps the malformed cells kept in an ImportReport.
const maxReportedIssues = 100

// Dataset maps region names to their time series, imported from one
// wide-format CSV file (date column first, one column per region).
//
// A Dataset is not safe for concurrent use. Hosts that read from other
// goroutines while importing must add their own barrier (see api.Handler).
type Dataset struct {
	regions map[string]*RegionSeries
	names   []string // header order
	source  string
	report  ImportReport

	mode      ParseMode
	aggregate string
	logger    *slog.Logger
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithParseMode sets how malformed numeric cells are read. Default lenient.
func WithParseMode(mode ParseMode) Option {
	return func(d *Dataset) { d.mode = mode }
}

// WithAggregateRegion names the region HighestInDataset can exclude.
func WithAggregateRegion(name string) Option {
	return func(d *Dataset) { d.aggregate = name }
}

// WithLogger sets the logger used for import diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dataset) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New returns an empty Dataset.
func New(opts ...Option) *Dataset {
	d := &Dataset{
		regions:   make(map[string]*RegionSeries),
		mode:      ParseLenient,
		aggregate: DefaultAggregateRegion,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ImportData replaces the contents of d with the file at path.
//
// The dataset is reset first. On any error it stays empty; on success it
// holds one series per header column after the first.
func (d *Dataset) ImportData(path string) error {
	d.Reset()

	start := time.Now()
	importID := uuid.NewString()
	logger := d.logger.With("import_id", importID, "source", path)

	doc, err := csvline.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	res, err := loadRecords(doc.Records, d.mode)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	// Install only once everything parsed.
	d.regions = res.regions
	d.names = res.names
	d.source = path
	res.report.ImportID = importID
	res.report.Source = path
	res.report.Mode = d.mode
	res.report.Bytes = doc.Size
	res.report.Checksum = doc.Checksum
	res.report.Duration = time.Since(start)
	d.report = res.report

	if res.report.MalformedCells > 0 {
		logger.Warn("malformed cells",
			"count", res.report.MalformedCells,
			"mode", d.mode.String(),
		)
	}
	logger.Info("import complete",
		"rows", res.report.Rows,
		"regions", res.report.Regions,
		"bytes", doc.Size,
		"duration", res.report.Duration,
	)
	return nil
}

type loadResult struct {
	regions map[string]*RegionSeries
	names   []string
	report  ImportReport
}

// loadRecords builds region series from parsed records. Row 0 is the header.
func loadRecords(records []csvline.Record, mode ParseMode) (*loadResult, error) {
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, ErrNoRegionsDeclared
	}
	header := records[0]

	res := &loadResult{
		regions: make(map[string]*RegionSeries, len(header)-1),
		names:   make([]string, 0, len(header)-1),
	}

	// Column 0 labels the dates; every other column is a region.
	for col := 1; col < len(header); col++ {
		name := header[col]
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: empty region name in column %d", ErrInvalidHeader, col)
		}
		if _, dup := res.regions[name]; dup {
			return nil, fmt.Errorf("%w: region %q declared twice", ErrInvalidHeader, name)
		}
		res.regions[name] = NewRegionSeries(name, col)
		res.names = append(res.names, name)
	}

	rep := &res.report
	rep.Regions = len(res.names)
	rep.Rows = len(records) - 1

	for line := 1; line < len(records); line++ {
		row := records[line]
		date := row[0]

		for col := 1; col < len(row); col++ {
			if col >= len(header) {
				rep.IgnoredCells++
				continue
			}
			series := res.regions[header[col]]

			amount, ok := parseAmount(row[col], mode)
			if !ok {
				rep.MalformedCells++
				if len(rep.Malformed) < maxReportedIssues {
					rep.Malformed = append(rep.Malformed, CellIssue{
						Line:   line + 1,
						Column: col,
						Region: series.Name(),
						Value:  row[col],
					})
				}
			}
			if amount.IsNull() {
				rep.NullCells++
			}
			series.Set(date, amount)
			rep.Cells++
		}
	}
	return res, nil
}

// Reset clears all regions and the source. Calling it repeatedly is harmless.
func (d *Dataset) Reset() {
	d.regions = make(map[string]*RegionSeries)
	d.names = nil
	d.source = ""
	d.report = ImportReport{}
}

// Size returns the number of regions.
func (d *Dataset) Size() int { return len(d.regions) }

// Empty reports whether no import has succeeded since creation or Reset.
func (d *Dataset) Empty() bool {
	return len(d.regions) == 0 && len(d.names) == 0 && d.source == ""
}

// Source returns the path of the last successful import.
func (d *Dataset) Source() string { return d.source }

// AggregateRegion returns the name of the roll-up region.
func (d *Dataset) AggregateRegion() string { return d.aggregate }

// Report returns the diagnostics of the last successful import.
func (d *Dataset) Report() ImportReport { return d.report }

// Regions returns the region names in header order.
func (d *Dataset) Regions() []string { return slices.Clone(d.names) }

// RegionByName returns the series for name. The returned pointer aliases the
// dataset's storage, so Set on it is visible to later queries.
func (d *Dataset) RegionByName(name string) (*RegionSeries, error) {
	r, ok := d.regions[name]
	if !ok {
		return nil, fmt.Errorf("%w: region %q", ErrKeyNotFound, name)
	}
	return r, nil
}
