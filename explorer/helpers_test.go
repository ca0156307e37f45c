package explorer

import (
	"context"
	"sync"
)

type analyzerFunc func(ctx context.Context, query string) (*AnalysisResult, error)

func (f analyzerFunc) Analyze(ctx context.Context, query string) (*AnalysisResult, error) {
	return f(ctx, query)
}

type reviewCall struct {
	title    string
	examples []string
}

// recordingView captures session callbacks and signals completions so tests
// can wait without sleeping.
type recordingView struct {
	mu      sync.Mutex
	started []string
	failed  []string
	ready   []*AnalysisResult
	reviews []reviewCall

	readyCh chan string
	failCh  chan string
}

func newRecordingView() *recordingView {
	return &recordingView{
		readyCh: make(chan string, 16),
		failCh:  make(chan string, 16),
	}
}

func (v *recordingView) AnalysisStarted(query string) {
	v.mu.Lock()
	v.started = append(v.started, query)
	v.mu.Unlock()
}

func (v *recordingView) AnalysisFailed(message string) {
	v.mu.Lock()
	v.failed = append(v.failed, message)
	v.mu.Unlock()
	v.failCh <- message
}

func (v *recordingView) AnalysisReady(result *AnalysisResult) {
	v.mu.Lock()
	v.ready = append(v.ready, result)
	v.mu.Unlock()
	v.readyCh <- result.SchoolName
}

func (v *recordingView) ShowReviews(title string, examples []string) {
	v.mu.Lock()
	v.reviews = append(v.reviews, reviewCall{title: title, examples: examples})
	v.mu.Unlock()
}

func (v *recordingView) readyNames() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	names := make([]string, len(v.ready))
	for i, r := range v.ready {
		names[i] = r.SchoolName
	}
	return names
}

func (v *recordingView) lastReview() (reviewCall, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.reviews) == 0 {
		return reviewCall{}, false
	}
	return v.reviews[len(v.reviews)-1], true
}

type renderedChart struct {
	slot     int
	data     ChartData
	onSelect SelectFunc
	closed   bool
}

func (c *renderedChart) Close() { c.closed = true }

// recordingRenderer keeps every handle it handed out so tests can check
// teardown across submissions.
type recordingRenderer struct {
	mu     sync.Mutex
	charts []*renderedChart
}

func (r *recordingRenderer) Render(slot int, data ChartData, onSelect SelectFunc) ChartHandle {
	c := &renderedChart{slot: slot, data: data, onSelect: onSelect}
	r.mu.Lock()
	r.charts = append(r.charts, c)
	r.mu.Unlock()
	return c
}

func (r *recordingRenderer) rendered() []*renderedChart {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*renderedChart, len(r.charts))
	copy(out, r.charts)
	return out
}

// countingSource records lookup queries and serves canned schools.
type countingSource struct {
	mu      sync.Mutex
	queries []string
	schools []School
	err     error
}

func (s *countingSource) Schools(ctx context.Context, query string) ([]School, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.schools, nil
}

func (s *countingSource) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// recordingSuggestionView signals every list update.
type recordingSuggestionView struct {
	mu        sync.Mutex
	shown     [][]School
	noMatches int
	hidden    int

	updates chan struct{}
}

func newRecordingSuggestionView() *recordingSuggestionView {
	return &recordingSuggestionView{updates: make(chan struct{}, 16)}
}

func (v *recordingSuggestionView) ShowSuggestions(items []School) {
	v.mu.Lock()
	v.shown = append(v.shown, items)
	v.mu.Unlock()
	v.updates <- struct{}{}
}

func (v *recordingSuggestionView) ShowNoMatches() {
	v.mu.Lock()
	v.noMatches++
	v.mu.Unlock()
	v.updates <- struct{}{}
}

func (v *recordingSuggestionView) HideSuggestions() {
	v.mu.Lock()
	v.hidden++
	v.mu.Unlock()
}

func (v *recordingSuggestionView) lastShown() []School {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.shown) == 0 {
		return nil
	}
	return v.shown[len(v.shown)-1]
}

// recordingSurface is an in-memory MapSurface.
type recordingSurface struct {
	centers []mapCenter
	markers []Marker
	popups  []string
}

type mapCenter struct {
	lat, lon float64
	zoom     int
}

func (s *recordingSurface) Center(lat, lon float64, zoom int) {
	s.centers = append(s.centers, mapCenter{lat: lat, lon: lon, zoom: zoom})
}

func (s *recordingSurface) AddMarker(m Marker) {
	s.markers = append(s.markers, m)
}

func (s *recordingSurface) Popup(lat, lon float64, text string) {
	s.popups = append(s.popups, text)
}
