package explorer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Phase is the lifecycle state of the analysis session.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

// Analyzer is the remote collaborator a session submits queries to.
type Analyzer interface {
	Analyze(ctx context.Context, query string) (*AnalysisResult, error)
}

// ChartHandle is one rendered chart slot. Close releases whatever drawing
// resources the renderer allocated for it.
type ChartHandle interface {
	Close()
}

// SelectFunc receives a drill-down activation: the label that was clicked,
// its count, and the example texts behind it.
type SelectFunc func(label string, count int, examples []string)

// Renderer turns normalized chart data into a visual occupying the given
// slot. Implementations must replace any previous occupant of the slot.
type Renderer interface {
	Render(slot int, data ChartData, onSelect SelectFunc) ChartHandle
}

// View receives session lifecycle callbacks. All calls arrive through the
// session's dispatcher, so implementations backed by a UI toolkit run on its
// event thread.
type View interface {
	AnalysisStarted(query string)
	AnalysisFailed(message string)
	AnalysisReady(result *AnalysisResult)
	ShowReviews(title string, examples []string)
}

// Session owns one in-flight or completed analysis. Each Submit mints a new
// token; a response is applied to shared state only while its token is still
// the current one, so a stale response that loses the race is dropped rather
// than overwriting a newer result.
type Session struct {
	analyzer Analyzer
	renderer Renderer
	view     View
	dispatch func(func())
	log      *zap.Logger

	mu     sync.Mutex
	token  uint64
	phase  Phase
	query  string
	result *AnalysisResult
	charts []ChartHandle
}

func NewSession(analyzer Analyzer, renderer Renderer, view View, dispatch func(func()), log *zap.Logger) *Session {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		analyzer: analyzer,
		renderer: renderer,
		view:     view,
		dispatch: dispatch,
		log:      log,
	}
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ActiveQuery is the query of the current submission, normalized.
func (s *Session) ActiveQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Result is the outcome of the last completed submission, nil before the
// first success and while a submission is pending.
func (s *Session) Result() *AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// ChartCount reports how many chart slots the current result occupies.
func (s *Session) ChartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.charts)
}

// Submit starts a fresh analysis for the query, superseding any in-flight
// one. Previously rendered charts are torn down before the request is
// issued, so no partial state survives a failure. Resubmitting the same
// query re-runs the full fetch and redraw; nothing is cached.
func (s *Session) Submit(query string) {
	query = NormalizeQuery(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	s.token++
	token := s.token
	s.phase = Pending
	s.query = query
	s.result = nil
	stale := s.charts
	s.charts = nil
	s.mu.Unlock()

	s.log.Info("analysis submitted", zap.String("query", query), zap.Uint64("token", token))
	s.dispatch(func() {
		closeAll(stale)
		s.view.AnalysisStarted(query)
	})

	go func() {
		result, err := s.analyzer.Analyze(context.Background(), query)
		s.finish(token, result, err)
	}()
}

func (s *Session) finish(token uint64, result *AnalysisResult, err error) {
	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		s.log.Debug("stale analysis response dropped", zap.Uint64("token", token))
		return
	}
	if err != nil {
		s.phase = Failed
		s.mu.Unlock()
		s.log.Warn("analysis failed", zap.Error(err))
		s.dispatch(func() { s.view.AnalysisFailed(failureMessage(err)) })
		return
	}
	s.phase = Succeeded
	s.result = result
	s.mu.Unlock()

	if sum := result.Stats.Positive + result.Stats.Negative + result.Stats.Neutral; sum != result.Stats.Total {
		// Display trusts the server; the mismatch is only worth a warning.
		s.log.Warn("stats total does not match sentiment sum",
			zap.Int("total", result.Stats.Total), zap.Int("sum", sum))
	}

	s.dispatch(func() {
		s.view.AnalysisReady(result)
		handles := make([]ChartHandle, 0, len(result.Analytics))
		for i, entry := range result.Analytics {
			data := NormalizeEntry(entry, i)
			if h := s.renderer.Render(i, data, s.openReviews); h != nil {
				handles = append(handles, h)
			}
		}
		s.mu.Lock()
		if token == s.token {
			s.charts = handles
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		// A newer Submit raced the redraw; its teardown already ran, so these
		// handles are ours to release.
		closeAll(handles)
	})
}

func (s *Session) openReviews(label string, count int, examples []string) {
	title := fmt.Sprintf("%s (%d отзывов)", label, count)
	s.dispatch(func() { s.view.ShowReviews(title, examples) })
}

func closeAll(handles []ChartHandle) {
	for _, h := range handles {
		h.Close()
	}
}

// failureMessage keeps the server's human-readable text when there is one
// and falls back to a generic notice for transport-level failures.
func failureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Ошибка при загрузке данных"
}
