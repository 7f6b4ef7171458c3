// Package api is the read side handed to presentation and sonification
// layers. It guards the current dataset so a background import can swap it
// while readers keep querying.
package api

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"covidsonif/internal/engine"
	"covidsonif/internal/models"

	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

// ErrLoading is returned while no dataset has been installed.
var ErrLoading = errors.New("dataset is still loading")

type Handler struct {
	mu   sync.RWMutex
	data *engine.Dataset
}

// NewHandler may be given nil; queries fail with ErrLoading until SetData.
func NewHandler(data *engine.Dataset) *Handler {
	return &Handler{data: data}
}

// SetData installs a fully imported dataset. The handler takes ownership:
// callers must not import into ds afterwards.
func (h *Handler) SetData(ds *engine.Dataset) {
	h.mu.Lock()
	h.data = ds
	h.mu.Unlock()
}

// Ready reports whether a dataset is installed.
func (h *Handler) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data != nil
}

// view runs fn under the read lock with the current dataset.
func (h *Handler) view(fn func(ds *engine.Dataset) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.data == nil {
		return ErrLoading
	}
	return fn(h.data)
}

// --- QUERIES ---

func pageBounds(limit, offset, total int) (int, int) {
	if limit <= 0 {
		limit = total
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Regions returns one page of region names in header order.
// limit <= 0 returns everything from offset on.
func (h *Handler) Regions(limit, offset int) (models.RegionPage, error) {
	var page models.RegionPage
	err := h.view(func(ds *engine.Dataset) error {
		names := ds.Regions()
		total := len(names)
		limit, offset = pageBounds(limit, offset, total)

		page = models.RegionPage{Data: []string{}, Total: total, Limit: limit, Offset: offset}
		if offset >= total {
			return nil
		}
		end := min(offset+limit, total)
		page.Data = names[offset:end]
		return nil
	})
	return page, err
}

// Summary reports per-region maxima and the dataset maximum.
func (h *Handler) Summary(includeAggregate bool) (models.DatasetSummary, error) {
	var sum models.DatasetSummary
	err := h.view(func(ds *engine.Dataset) error {
		sum = models.DatasetSummary{
			Source:           ds.Source(),
			Regions:          ds.Size(),
			AggregateRegion:  ds.AggregateRegion(),
			IncludeAggregate: includeAggregate,
			Highest:          float64(ds.HighestInDataset(includeAggregate)),
			RegionStats:      make([]models.RegionSummary, 0, ds.Size()),
		}
		if dates := ds.Dates(); len(dates) > 0 {
			sum.FirstDate = dates[0]
			sum.LastDate = dates[len(dates)-1]
		}
		for _, name := range ds.Regions() {
			r, err := ds.RegionByName(name)
			if err != nil {
				return err
			}
			sum.RegionStats = append(sum.RegionStats, models.RegionSummary{
				Region:  name,
				Column:  r.ColumnIndex(),
				Dates:   r.Size(),
				Highest: float64(r.Highest()),
			})
		}
		return nil
	})
	return sum, err
}

// Series returns one region's points in chronological order.
func (h *Handler) Series(region string) (models.Series, error) {
	var s models.Series
	err := h.view(func(ds *engine.Dataset) error {
		r, err := ds.RegionByName(region)
		if err != nil {
			return err
		}
		s = models.Series{Region: region, Highest: float64(r.Highest())}
		dates := r.SortedDates()
		s.Points = make([]models.Point, 0, len(dates))
		for _, date := range dates {
			a, err := r.Get(date)
			if err != nil {
				return err
			}
			p := models.Point{Date: date, Amount: float64(a)}
			if a.IsNull() {
				p.Amount = 0
				p.Null = true
			}
			s.Points = append(s.Points, p)
		}
		return nil
	})
	return s, err
}

// --- RENDERING ---

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// RenderTable writes sum as a text table, one row per region.
func RenderTable(w io.Writer, sum models.DatasetSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Column", "Region", "Dates", "Highest")
	for _, rs := range sum.RegionStats {
		if err := table.Append([]string{
			strconv.Itoa(rs.Column),
			rs.Region,
			strconv.Itoa(rs.Dates),
			strconv.FormatFloat(rs.Highest, 'f', -1, 64),
		}); err != nil {
			return fmt.Errorf("table row %q: %w", rs.Region, err)
		}
	}
	table.Footer("", "highest", "", strconv.FormatFloat(sum.Highest, 'f', -1, 64))
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// WriteArrow streams the current dataset to w in Arrow IPC stream format.
func (h *Handler) WriteArrow(w io.Writer) error {
	return h.view(func(ds *engine.Dataset) error {
		rec, err := ds.Record(memory.DefaultAllocator)
		if err != nil {
			return err
		}
		defer rec.Release()

		iw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()))
		if err := iw.Write(rec); err != nil {
			_ = iw.Close()
			return fmt.Errorf("write arrow record: %w", err)
		}
		if err := iw.Close(); err != nil {
			return fmt.Errorf("close arrow stream: %w", err)
		}
		return nil
	})
}
