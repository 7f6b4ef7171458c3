package engine

import (
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// DateField is the name of the first column in exported records.
const DateField = "date"

// Schema returns the Arrow schema of Record: a utf8 date column followed by
// one nullable float64 column per region in header order.
func (d *Dataset) Schema() *arrow.Schema {
	fields := make([]arrow.Field, 0, len(d.names)+1)
	fields = append(fields, arrow.Field{Name: DateField, Type: arrow.BinaryTypes.String})
	for _, name := range d.names {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// Record exports the dataset as a single Arrow record with one row per date.
// Null amounts and dates missing from a region become Arrow nulls.
// The caller must Release the record.
func (d *Dataset) Record(mem memory.Allocator) (arrow.Record, error) {
	if d.Empty() {
		return nil, ErrEmptyDataset
	}

	b := array.NewRecordBuilder(mem, d.Schema())
	defer b.Release()

	dates := d.Dates()
	dateCol := b.Field(0).(*array.StringBuilder)
	dateCol.AppendValues(dates, nil)

	for i, name := range d.names {
		col := b.Field(i + 1).(*array.Float64Builder)
		col.Reserve(len(dates))
		series := d.regions[name]
		for _, date := range dates {
			a, ok := series.byDate[date]
			if !ok || a.IsNull() {
				col.AppendNull()
				continue
			}
			col.Append(float64(a))
		}
	}
	return b.NewRecord(), nil
}
