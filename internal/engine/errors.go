package engine

import "errors"

var (
	// ErrSourceUnreadable is returned by ImportData when the source file
	// cannot be read. The underlying csvline.ErrNotFound is wrapped too.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrNoRegionsDeclared means the header has no region columns.
	ErrNoRegionsDeclared = errors.New("no regions declared in header")

	// ErrInvalidHeader means a region name is empty or repeated.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrKeyNotFound is returned for queries on unknown regions or dates.
	ErrKeyNotFound = errors.New("key not found")

	// ErrEmptyDataset is returned by exports of a dataset with no data.
	ErrEmptyDataset = errors.New("dataset is empty")
)
