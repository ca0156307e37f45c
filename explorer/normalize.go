package explorer

import (
	"strings"
	"unicode/utf8"
)

const (
	// Labels longer than this wrap on word boundaries before rendering.
	labelWrapLimit = 12

	// The first two chart slots carry the densest categorical breakdowns
	// and read better with horizontal bars.
	horizontalSlots = 2
)

// The one stacked breakdown the service lays out on a time axis, recognized
// by name when the entry declares no orientation of its own.
const seasonalityPrefix = "Сезонность"

// NormalizeEntry reduces one analytics entry of unknown internal shape to a
// ChartData. It is total: malformed payloads and unrecognized item shapes
// degrade to zero-valued charts instead of failing, so one bad entry never
// blocks the rest of a result from rendering.
func NormalizeEntry(entry AnalyticsEntry, slot int) ChartData {
	d := ChartData{Title: entry.Name}

	switch entry.Type {
	case EntryStackedBar:
		d.Kind = KindStackedBars
		d.Orientation = stackedOrientation(entry)
		labels, pos, neg, ok := decodeStackedPoints(entry.Payload)
		if !ok {
			return d
		}
		d.Labels = labels
		d.Primary = pos
		d.Secondary = neg
		return d

	case EntryLine:
		d.Kind = KindLine
		d.Orientation = Vertical
		labels, values, ok := decodeSeriesPoints(entry.Payload)
		if !ok {
			return d
		}
		d.Labels = labels
		d.Primary = values
		return d
	}

	// Categorical entries: an ordered label→count mapping, tolerating both
	// the flat and the {count, examples} value shapes. Older service
	// revisions emit a point list here instead of a mapping.
	d.Kind = KindBars
	d.Orientation = barOrientation(entry, slot)
	if labels, items, ok := decodeCountMap(entry.Payload); ok {
		d.Labels = labels
		d.Primary = make([]float64, len(items))
		d.Examples = make([][]string, len(items))
		for i, it := range items {
			d.Primary[i] = it.Count
			d.Examples[i] = it.Examples
		}
		return d
	}
	if labels, values, ok := decodeSeriesPoints(entry.Payload); ok {
		d.Labels = labels
		d.Primary = values
		return d
	}
	return d
}

func explicitOrientation(s string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return Horizontal, true
	case "vertical":
		return Vertical, true
	}
	return Horizontal, false
}

func barOrientation(entry AnalyticsEntry, slot int) Orientation {
	if o, ok := explicitOrientation(entry.Orientation); ok {
		return o
	}
	if slot < horizontalSlots {
		return Horizontal
	}
	return Vertical
}

func stackedOrientation(entry AnalyticsEntry) Orientation {
	if o, ok := explicitOrientation(entry.Orientation); ok {
		return o
	}
	if strings.HasPrefix(entry.Name, seasonalityPrefix) {
		return Vertical
	}
	return Horizontal
}

// WrapLabel splits a long label on spaces so a categorical axis does not
// overflow. Purely a rendering hint; ChartData keeps the original label.
func WrapLabel(label string) []string {
	if utf8.RuneCountInString(label) <= labelWrapLimit {
		return []string{label}
	}
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return []string{label}
	}
	return fields
}
