package explorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAnnotatorLoadPlacesCoordinateMarkers(t *testing.T) {
	source := &countingSource{schools: []School{
		{ID: 1, FullName: "Школа №1", Lat: 55.7, Lon: 37.6, ReviewCount: 12},
		{ID: 2, FullName: "Школа №2"}, // no coordinates, skipped
		{ID: 3, FullName: "Школа №3", Lat: 55.8, Lon: 37.5},
	}}
	surface := &recordingSurface{}
	var submitted []string
	a := NewAnnotator(surface, source, func(q string) { submitted = append(submitted, q) }, zaptest.NewLogger(t))

	a.Load(context.Background())

	require.Equal(t, []string{""}, source.calls(), "bulk fetch uses the empty query")
	require.Len(t, surface.centers, 1)
	assert.Equal(t, mapCenter{lat: DefaultMapLat, lon: DefaultMapLon, zoom: DefaultMapZoom}, surface.centers[0])

	require.Len(t, surface.markers, 2)
	assert.True(t, surface.markers[0].HasReviews)
	assert.False(t, surface.markers[1].HasReviews)

	surface.markers[1].OnAnalyze()
	assert.Equal(t, []string{"Школа №3"}, submitted)
}

func TestAnnotatorLoadFetchFailureLeavesMapEmpty(t *testing.T) {
	source := &countingSource{err: errors.New("boom")}
	surface := &recordingSurface{}
	a := NewAnnotator(surface, source, nil, zaptest.NewLogger(t))

	a.Load(context.Background())

	assert.Len(t, surface.centers, 1, "viewport is centered even without markers")
	assert.Empty(t, surface.markers)
}

func TestAnnotatorNilSurfaceIsNoop(t *testing.T) {
	source := &countingSource{}
	a := NewAnnotator(nil, source, nil, zaptest.NewLogger(t))

	a.Load(context.Background())
	a.Focus(School{Lat: 55.7, Lon: 37.6})

	assert.Empty(t, source.calls())
}

func TestAnnotatorFocus(t *testing.T) {
	surface := &recordingSurface{}
	a := NewAnnotator(surface, &countingSource{}, nil, zaptest.NewLogger(t))

	a.Focus(School{FullName: "Школа №1234", ShortName: "№1234", Lat: 55.7, Lon: 37.6})

	require.Len(t, surface.centers, 1)
	assert.Equal(t, FocusZoom, surface.centers[0].zoom)
	assert.Equal(t, []string{"№1234"}, surface.popups)

	// Schools without coordinates cannot be focused.
	a.Focus(School{FullName: "Школа №2"})
	assert.Len(t, surface.centers, 1)
}
