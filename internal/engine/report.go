package engine

import "time"

// ImportReport describes the last successful ImportData call.
type ImportReport struct {
	ImportID string
	Source   string
	Mode     ParseMode

	Rows    int // data rows, header excluded
	Regions int

	Cells          int // cells stored, nulls included
	NullCells      int
	MalformedCells int
	IgnoredCells   int // cells past the last header column

	// Malformed holds the first malformed cells, at most maxReportedIssues.
	Malformed []CellIssue

	Bytes    int
	Checksum uint64
	Duration time.Duration
}

// CellIssue locates one malformed cell. Line is 1-based and counts the header.
type CellIssue struct {
	Line   int
	Column int
	Region string
	Value  string
}
