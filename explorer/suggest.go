package explorer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultSuggestDelay is the quiet period after the last keystroke
	// before a lookup fires.
	DefaultSuggestDelay = 300 * time.Millisecond

	// MaxSuggestions caps the rendered candidate list.
	MaxSuggestions = 5
)

// SchoolSource provides the incremental search lookups. Satisfied by *Client.
type SchoolSource interface {
	Schools(ctx context.Context, query string) ([]School, error)
}

// SuggestionView is the surface the candidate list renders on.
type SuggestionView interface {
	ShowSuggestions(items []School)
	ShowNoMatches()
	HideSuggestions()
}

// Suggester debounces keystrokes into at most one scheduled lookup at a
// time. Lookup failures are logged and swallowed; the list keeps its prior
// state because incremental search is not critical to the primary flow.
type Suggester struct {
	source   SchoolSource
	view     SuggestionView
	onSelect func(School)
	dispatch func(func())
	log      *zap.Logger
	delay    time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewSuggester(source SchoolSource, view SuggestionView, onSelect func(School), dispatch func(func()), log *zap.Logger) *Suggester {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Suggester{
		source:   source,
		view:     view,
		onSelect: onSelect,
		dispatch: dispatch,
		log:      log,
		delay:    DefaultSuggestDelay,
	}
}

// SetDelay overrides the debounce quiet period. Zero keeps the default.
func (s *Suggester) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// OnInput handles one keystroke worth of raw text. Short input hides the
// list without touching the network; anything else reschedules the single
// pending lookup, so only the last keystroke of a burst produces a request.
func (s *Suggester) OnInput(raw string) {
	q := NormalizeQuery(raw)

	s.mu.Lock()
	s.cancelLocked()
	if !Suggestable(q) {
		s.mu.Unlock()
		s.dispatch(s.view.HideSuggestions)
		return
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.lookup(gen, q) })
	s.mu.Unlock()
}

// Dismiss hides the candidate list and drops any scheduled lookup. Wired to
// clicks outside the search widget.
func (s *Suggester) Dismiss() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	s.dispatch(s.view.HideSuggestions)
}

// Select resolves a clicked candidate. The canonical query is the school's
// full name; downstream effects (filling the input, submitting the analysis,
// recentering a map) belong to the onSelect wiring.
func (s *Suggester) Select(sch School) {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	s.dispatch(s.view.HideSuggestions)
	if s.onSelect != nil {
		s.onSelect(sch)
	}
}

// cancelLocked stops the pending timer and invalidates in-flight lookups.
func (s *Suggester) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Suggester) lookup(gen uint64, query string) {
	schools, err := s.source.Schools(context.Background(), query)
	if err != nil {
		s.log.Warn("school lookup failed", zap.String("query", query), zap.Error(err))
		return
	}

	if len(schools) > MaxSuggestions {
		schools = schools[:MaxSuggestions]
	}
	s.dispatch(func() {
		// Re-checked inside the dispatched closure: a Dismiss can land
		// between the lookup returning and this update running, and its
		// HideSuggestions must not be undone by a stale list.
		s.mu.Lock()
		current := gen == s.gen
		s.mu.Unlock()
		if !current {
			return
		}
		if len(schools) == 0 {
			s.view.ShowNoMatches()
			return
		}
		s.view.ShowSuggestions(schools)
	})
}
