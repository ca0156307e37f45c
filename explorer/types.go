package explorer

import "encoding/json"

// School is one searchable organization as served by the analytics backend.
// Identity is FullName, which doubles as the canonical analysis query.
type School struct {
	ID          int     `json:"id"`
	FullName    string  `json:"full_name"`
	ShortName   string  `json:"short_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ReviewCount int     `json:"review_count"`
}

// DisplayName prefers the short name and falls back to the full name.
func (s School) DisplayName() string {
	if s.ShortName != "" {
		return s.ShortName
	}
	return s.FullName
}

func (s School) HasCoordinates() bool {
	return s.Lat != 0 || s.Lon != 0
}

func (s School) HasReviews() bool {
	return s.ReviewCount > 0
}

// Stats are the summary counters of one analysis. The client displays them
// as-is; Total is not re-validated against the sentiment sum.
type Stats struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// AnalysisResult is the full response of one analyze request. It is owned by
// the active session and replaced wholesale on each new submission.
type AnalysisResult struct {
	SchoolName string           `json:"school_name"`
	Stats      Stats            `json:"stats"`
	Analytics  []AnalyticsEntry `json:"analytics"`
}

// EntryType tags the declared shape of an analytics entry.
type EntryType string

const (
	EntryBar        EntryType = "bar"
	EntryLine       EntryType = "line"
	EntryStackedBar EntryType = "stackedBar"
)

// AnalyticsEntry is one named breakdown within an analysis result. Payload is
// kept raw because its internal shape varies between service revisions; it is
// decoded once by NormalizeEntry.
type AnalyticsEntry struct {
	Name        string          `json:"name"`
	Type        EntryType       `json:"type"`
	Orientation string          `json:"orientation,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

// ChartKind selects the visual encoding of a normalized entry.
type ChartKind int

const (
	KindBars ChartKind = iota
	KindStackedBars
	KindLine
)

// Orientation of the categorical axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ChartData is the uniform encoding every analytics entry reduces to.
// Labels and Primary always have equal length; Secondary is set only for
// stacked charts and Examples only where drill-down is available.
type ChartData struct {
	Title       string
	Kind        ChartKind
	Orientation Orientation
	Labels      []string
	Primary     []float64
	Secondary   []float64
	Examples    [][]string
}

// ExamplesFor returns the drill-down texts behind label index i, or nil when
// the entry carries none.
func (d ChartData) ExamplesFor(i int) []string {
	if i < 0 || i >= len(d.Examples) {
		return nil
	}
	return d.Examples[i]
}

// CountFor returns the primary value at label index i as a whole count.
func (d ChartData) CountFor(i int) int {
	if i < 0 || i >= len(d.Primary) {
		return 0
	}
	return int(d.Primary[i])
}
