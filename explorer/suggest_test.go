package explorer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSuggester(t *testing.T, source SchoolSource, onSelect func(School)) (*Suggester, *recordingSuggestionView) {
	view := newRecordingSuggestionView()
	s := NewSuggester(source, view, onSelect, nil, zaptest.NewLogger(t))
	s.SetDelay(10 * time.Millisecond)
	return s, view
}

func waitUpdate(t *testing.T, view *recordingSuggestionView) {
	t.Helper()
	select {
	case <-view.updates:
	case <-time.After(2 * time.Second):
		t.Fatal("no suggestion update arrived")
	}
}

func TestSuggesterShortInputHidesWithoutFetch(t *testing.T) {
	source := &countingSource{}
	s, view := newTestSuggester(t, source, nil)

	s.OnInput("ш")

	assert.Never(t, func() bool { return len(source.calls()) > 0 },
		100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 1, view.hidden)
}

func TestSuggesterDebouncesBurst(t *testing.T) {
	source := &countingSource{schools: []School{{ID: 1, FullName: "Школа №1234"}}}
	s, view := newTestSuggester(t, source, nil)

	// A typing burst; only the final value may reach the network.
	s.OnInput("шк")
	s.OnInput("шко")
	s.OnInput("школа")
	waitUpdate(t, view)

	require.Equal(t, []string{"школа"}, source.calls())
	require.Len(t, view.lastShown(), 1)
	assert.Equal(t, "Школа №1234", view.lastShown()[0].FullName)
}

func TestSuggesterTruncatesToMax(t *testing.T) {
	var schools []School
	for i := 0; i < MaxSuggestions+3; i++ {
		schools = append(schools, School{ID: i})
	}
	source := &countingSource{schools: schools}
	s, view := newTestSuggester(t, source, nil)

	s.OnInput("школа")
	waitUpdate(t, view)

	assert.Len(t, view.lastShown(), MaxSuggestions)
}

func TestSuggesterNoMatches(t *testing.T) {
	source := &countingSource{}
	s, view := newTestSuggester(t, source, nil)

	s.OnInput("школа")
	waitUpdate(t, view)

	assert.Equal(t, 1, view.noMatches)
	assert.Empty(t, view.shown)
}

func TestSuggesterLookupFailureIsSilent(t *testing.T) {
	source := &countingSource{err: errors.New("boom")}
	s, view := newTestSuggester(t, source, nil)

	s.OnInput("школа")

	// The list keeps its prior state: no update of any kind arrives.
	assert.Never(t, func() bool {
		select {
		case <-view.updates:
			return true
		default:
			return false
		}
	}, 150*time.Millisecond, 10*time.Millisecond)
	assert.Zero(t, view.noMatches)
}

func TestSuggesterDismissDropsScheduledLookup(t *testing.T) {
	source := &countingSource{schools: []School{{ID: 1}}}
	s, view := newTestSuggester(t, source, nil)

	s.OnInput("школа")
	s.Dismiss()

	assert.Never(t, func() bool { return len(source.calls()) > 0 },
		100*time.Millisecond, 10*time.Millisecond)
	assert.GreaterOrEqual(t, view.hidden, 1)
}

func TestSuggesterDismissBeatsInFlightLookup(t *testing.T) {
	// Dispatch defers like a real UI thread, so a Dismiss can land after the
	// lookup returned but before its view update has run. The update must
	// notice and stay silent instead of re-opening the list.
	var mu sync.Mutex
	var queued []func()
	dispatch := func(f func()) {
		mu.Lock()
		queued = append(queued, f)
		mu.Unlock()
	}

	source := &countingSource{schools: []School{{ID: 1, FullName: "Школа №1234"}}}
	view := newRecordingSuggestionView()
	s := NewSuggester(source, view, nil, dispatch, zaptest.NewLogger(t))
	s.SetDelay(5 * time.Millisecond)

	s.OnInput("школа")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(queued) > 0
	}, 2*time.Second, 5*time.Millisecond)

	s.Dismiss()

	mu.Lock()
	pending := queued
	queued = nil
	mu.Unlock()
	for _, f := range pending {
		f()
	}

	assert.Nil(t, view.lastShown())
	assert.Zero(t, view.noMatches)
	assert.Equal(t, 1, view.hidden)
}

func TestSuggesterSelectHidesAndFires(t *testing.T) {
	source := &countingSource{}
	var picked School
	s, view := newTestSuggester(t, source, func(sch School) { picked = sch })

	s.Select(School{ID: 7, FullName: "Школа №7"})

	assert.Equal(t, 7, picked.ID)
	assert.Equal(t, 1, view.hidden)
}
