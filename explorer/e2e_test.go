package explorer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestSearchToDrilldownFlow walks the primary user journey against a real
// HTTP round trip: type a partial name, pick the suggestion, wait for the
// analysis, then click a bar to read the underlying reviews.
func TestSearchToDrilldownFlow(t *testing.T) {
	school := School{ID: 1, FullName: "Школа №1234", ShortName: "№1234", ReviewCount: 10}
	analysis := AnalysisResult{
		SchoolName: "Школа №1234",
		Stats:      Stats{Total: 10, Positive: 6, Negative: 2, Neutral: 2},
		Analytics: []AnalyticsEntry{
			{
				Name: "Сильные стороны",
				Type: EntryBar,
				Payload: json.RawMessage(`{
					"Питание":{"count":4,"examples":["Кормят отлично","Меню разнообразное","Столовая чистая","Обеды вкусные"]},
					"Учителя":{"count":2,"examples":["Сильный состав","Внимательные педагоги"]}
				}`),
			},
			{
				Name:    "Темы по тональности",
				Type:    EntryStackedBar,
				Payload: json.RawMessage(`[{"category":"Питание","pos":4,"neg":0},{"category":"Ремонт","pos":0,"neg":2}]`),
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schools":
			json.NewEncoder(w).Encode([]School{school})
		case "/analyze":
			json.NewEncoder(w).Encode(analysis)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	log := zaptest.NewLogger(t)
	client := NewClient(srv.URL, log)

	view := newRecordingView()
	renderer := &recordingRenderer{}
	session := NewSession(client, renderer, view, nil, log)

	sugView := newRecordingSuggestionView()
	suggester := NewSuggester(client, sugView, func(sch School) {
		session.Submit(sch.FullName)
	}, nil, log)
	suggester.SetDelay(10 * time.Millisecond)

	// Typing "школа 12" surfaces the candidate.
	suggester.OnInput("школа 12")
	select {
	case <-sugView.updates:
	case <-time.After(2 * time.Second):
		t.Fatal("no suggestions arrived")
	}
	candidates := sugView.lastShown()
	require.Len(t, candidates, 1)
	assert.Equal(t, "Школа №1234", candidates[0].FullName)

	// Picking it submits the canonical full name.
	suggester.Select(candidates[0])
	require.Equal(t, "Школа №1234", <-view.readyCh)
	assert.Equal(t, []string{"Школа №1234"}, view.started)

	result := session.Result()
	require.NotNil(t, result)
	assert.Equal(t, 10, result.Stats.Total)
	assert.Equal(t, 6, result.Stats.Positive)

	charts := renderer.rendered()
	require.Len(t, charts, 2)

	strengths := charts[0]
	require.Equal(t, []string{"Питание", "Учителя"}, strengths.data.Labels)
	assert.Equal(t, 4, strengths.data.CountFor(0))

	// Drill down on the leading bar.
	strengths.onSelect("Питание", strengths.data.CountFor(0), strengths.data.ExamplesFor(0))
	review, ok := view.lastReview()
	require.True(t, ok)
	assert.Equal(t, "Питание (4 отзывов)", review.title)
	assert.Len(t, review.examples, 4)
	assert.Equal(t, "Кормят отлично", review.examples[0])

	// The stacked breakdown renders alongside without drill-down.
	stacked := charts[1]
	assert.Equal(t, KindStackedBars, stacked.data.Kind)
	assert.Nil(t, stacked.data.Examples)
}
