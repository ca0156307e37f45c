package explorer

import (
	"bytes"
	"encoding/json"
)

// countItem is one decoded value of a categorical payload.
type countItem struct {
	Count    float64
	Examples []string
}

// decodeCountMap reads a JSON object while preserving the order its keys
// appear on the wire. A plain map would lose it, and the service emits the
// breakdown in display order.
func decodeCountMap(raw []byte) ([]string, []countItem, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, false
	}
	var labels []string
	var items []countItem
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, false
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, nil, false
		}
		labels = append(labels, key)
		items = append(items, decodeCountItem(val))
	}
	return labels, items, true
}

// decodeCountItem accepts the three value shapes the service has emitted over
// its revisions: a bare number, a list of example texts, and a
// {count, examples} record. Anything else degrades to a zero count.
func decodeCountItem(raw json.RawMessage) countItem {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return countItem{Count: n}
	}
	var texts []string
	if err := json.Unmarshal(raw, &texts); err == nil {
		return countItem{Count: float64(len(texts)), Examples: texts}
	}
	var seq []json.RawMessage
	if err := json.Unmarshal(raw, &seq); err == nil {
		return countItem{Count: float64(len(seq))}
	}
	var rec struct {
		Count    *float64 `json:"count"`
		Examples []string `json:"examples"`
	}
	if err := json.Unmarshal(raw, &rec); err == nil && rec.Count != nil {
		return countItem{Count: *rec.Count, Examples: rec.Examples}
	}
	return countItem{}
}

type seriesPoint struct {
	Label string          `json:"label"`
	Value json.RawMessage `json:"value"`
}

func decodeSeriesPoints(raw []byte) ([]string, []float64, bool) {
	var pts []seriesPoint
	if err := json.Unmarshal(raw, &pts); err != nil {
		return nil, nil, false
	}
	labels := make([]string, len(pts))
	values := make([]float64, len(pts))
	for i, p := range pts {
		labels[i] = p.Label
		values[i] = decodePointValue(p.Value)
	}
	return labels, values, true
}

func decodePointValue(raw json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var seq []json.RawMessage
	if err := json.Unmarshal(raw, &seq); err == nil {
		return float64(len(seq))
	}
	return 0
}

type stackedPoint struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Pos      float64 `json:"pos"`
	Neg      float64 `json:"neg"`
}

// decodeStackedPoints handles both field spellings the service uses for the
// category axis: "category" on thematic breakdowns, "label" on seasonal ones.
func decodeStackedPoints(raw []byte) (labels []string, pos, neg []float64, ok bool) {
	var pts []stackedPoint
	if err := json.Unmarshal(raw, &pts); err != nil {
		return nil, nil, nil, false
	}
	labels = make([]string, len(pts))
	pos = make([]float64, len(pts))
	neg = make([]float64, len(pts))
	for i, p := range pts {
		label := p.Category
		if label == "" {
			label = p.Label
		}
		labels[i] = label
		pos[i] = p.Pos
		neg[i] = p.Neg
	}
	return labels, pos, neg, true
}
