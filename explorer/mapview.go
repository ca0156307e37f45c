package explorer

import (
	"context"

	"go.uber.org/zap"
)

// Default viewport over the city center, matching the service's coverage.
const (
	DefaultMapLat  = 55.7558
	DefaultMapLon  = 37.6173
	DefaultMapZoom = 11
	FocusZoom      = 15
)

// Marker is one school pin on the map surface.
type Marker struct {
	School     School
	HasReviews bool
	OnAnalyze  func()
}

// MapSurface is the capability contract of an external map widget. The
// surface is constructed once by the host and never rebuilt; the annotator
// only mutates its markers and viewport.
type MapSurface interface {
	Center(lat, lon float64, zoom int)
	AddMarker(m Marker)
	Popup(lat, lon float64, text string)
}

// Annotator loads the full entity list once and pins every school that
// carries coordinates. It performs no further network calls after Load.
type Annotator struct {
	surface MapSurface
	source  SchoolSource
	submit  func(query string)
	log     *zap.Logger
}

func NewAnnotator(surface MapSurface, source SchoolSource, submit func(string), log *zap.Logger) *Annotator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Annotator{surface: surface, source: source, submit: submit, log: log}
}

// Load centers the surface on the default viewport and places the markers.
// A failed bulk fetch leaves the map empty without blocking the rest of the
// UI. Doing nothing when no surface is present keeps the annotator optional.
func (a *Annotator) Load(ctx context.Context) {
	if a.surface == nil {
		return
	}
	a.surface.Center(DefaultMapLat, DefaultMapLon, DefaultMapZoom)

	schools, err := a.source.Schools(ctx, "")
	if err != nil {
		a.log.Warn("bulk school fetch failed, map left empty", zap.Error(err))
		return
	}
	placed := 0
	for _, sch := range schools {
		if !sch.HasCoordinates() {
			continue
		}
		sch := sch
		a.surface.AddMarker(Marker{
			School:     sch,
			HasReviews: sch.HasReviews(),
			OnAnalyze: func() {
				if a.submit != nil {
					a.submit(sch.FullName)
				}
			},
		})
		placed++
	}
	a.log.Info("map markers placed", zap.Int("count", placed))
}

// Focus recenters on a selected school and opens its popup. Used when a
// suggestion carrying coordinates is picked.
func (a *Annotator) Focus(sch School) {
	if a.surface == nil || !sch.HasCoordinates() {
		return
	}
	a.surface.Center(sch.Lat, sch.Lon, FocusZoom)
	a.surface.Popup(sch.Lat, sch.Lon, sch.DisplayName())
}
