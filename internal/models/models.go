package models

type DatasetSummary struct {
	Source           string          `json:"source"`
	Regions          int             `json:"regions"`
	FirstDate        string          `json:"first_date,omitempty"`
	LastDate         string          `json:"last_date,omitempty"`
	AggregateRegion  string          `json:"aggregate_region"`
	IncludeAggregate bool            `json:"include_aggregate"`
	Highest          float64         `json:"highest"`
	RegionStats      []RegionSummary `json:"region_stats"`
}

type RegionSummary struct {
	Region  string  `json:"region"`
	Column  int     `json:"column"`
	Dates   int     `json:"dates"`
	Highest float64 `json:"highest"`
}

type RegionPage struct {
	Data   []string `json:"data"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

type Series struct {
	Region  string  `json:"region"`
	Highest float64 `json:"highest"`
	Points  []Point `json:"points"`
}

type Point struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Null   bool    `json:"null,omitempty"`
}

// Event is one playback step handed to a sink.
type Event struct {
	Seq    int     `json:"seq"`
	Region string  `json:"region"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Level  float64 `json:"level"` // amount normalized to [0,1]
	Null   bool    `json:"null,omitempty"`
}
