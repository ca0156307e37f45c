package app

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"reviewexplorer/desktop/explorer"
)

const (
	chartMinWidth  = float32(420)
	chartMinHeight = float32(260)
	chartPadding   = float32(12)
	axisGutter     = float32(120)
	barGap         = float32(6)
	labelTextSize  = float32(11)
	titleTextSize  = float32(13)
)

var (
	primaryColor   = color.NRGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xe6}
	secondaryColor = color.NRGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xe6}
	axisTextColor  = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	areaFillColor  = color.NRGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0x24}
)

// chartWidget draws one normalized analytics entry as bars, stacked bars or
// a filled line. Taps on categorical bars resolve back to the label and its
// example texts.
type chartWidget struct {
	widget.BaseWidget
	data     explorer.ChartData
	onSelect explorer.SelectFunc

	mu   sync.Mutex
	bars []barRegion
}

// barRegion is the laid-out rectangle of one bar, kept for hit testing.
type barRegion struct {
	index int
	pos   fyne.Position
	size  fyne.Size
}

func newChartWidget(data explorer.ChartData, onSelect explorer.SelectFunc) *chartWidget {
	c := &chartWidget{data: data, onSelect: onSelect}
	c.ExtendBaseWidget(c)
	return c
}

// Tapped implements drill-down: only single-series bars carry example lists.
func (c *chartWidget) Tapped(ev *fyne.PointEvent) {
	if c.onSelect == nil || c.data.Kind != explorer.KindBars {
		return
	}
	idx, ok := c.barAt(ev.Position)
	if !ok {
		return
	}
	c.onSelect(c.data.Labels[idx], c.data.CountFor(idx), c.data.ExamplesFor(idx))
}

func (c *chartWidget) barAt(p fyne.Position) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.bars {
		if p.X >= r.pos.X && p.X <= r.pos.X+r.size.Width &&
			p.Y >= r.pos.Y && p.Y <= r.pos.Y+r.size.Height {
			return r.index, true
		}
	}
	return 0, false
}

func (c *chartWidget) setBars(regions []barRegion) {
	c.mu.Lock()
	c.bars = regions
	c.mu.Unlock()
}

func (c *chartWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &chartRenderer{chart: c}
	r.build()
	return r
}

type chartRenderer struct {
	chart *chartWidget

	title     *canvas.Text
	primary   []*canvas.Rectangle
	secondary []*canvas.Rectangle
	labels    [][]*canvas.Text
	values    []*canvas.Text
	segments  []*canvas.Line
	fills     []*canvas.Rectangle
	objects   []fyne.CanvasObject
}

func (r *chartRenderer) build() {
	d := r.chart.data

	r.title = canvas.NewText(d.Title, axisTextColor)
	r.title.TextSize = titleTextSize
	r.title.TextStyle = fyne.TextStyle{Bold: true}
	r.objects = append(r.objects, r.title)

	for i, label := range d.Labels {
		var lines []*canvas.Text
		for _, part := range explorer.WrapLabel(label) {
			t := canvas.NewText(part, axisTextColor)
			t.TextSize = labelTextSize
			lines = append(lines, t)
			r.objects = append(r.objects, t)
		}
		r.labels = append(r.labels, lines)

		switch d.Kind {
		case explorer.KindLine:
			fill := canvas.NewRectangle(areaFillColor)
			r.fills = append(r.fills, fill)
			r.objects = append(r.objects, fill)
			if i > 0 {
				seg := canvas.NewLine(primaryColor)
				seg.StrokeWidth = 2
				r.segments = append(r.segments, seg)
				r.objects = append(r.objects, seg)
			}
		default:
			bar := canvas.NewRectangle(primaryColor)
			r.primary = append(r.primary, bar)
			r.objects = append(r.objects, bar)
			if d.Kind == explorer.KindStackedBars {
				neg := canvas.NewRectangle(secondaryColor)
				r.secondary = append(r.secondary, neg)
				r.objects = append(r.objects, neg)
			} else {
				v := canvas.NewText(fmt.Sprintf("%d", d.CountFor(i)), axisTextColor)
				v.TextSize = labelTextSize
				r.values = append(r.values, v)
				r.objects = append(r.objects, v)
			}
		}
	}
}

func (r *chartRenderer) Layout(size fyne.Size) {
	d := r.chart.data
	r.title.Move(fyne.NewPos(chartPadding, chartPadding))

	top := chartPadding*2 + r.title.MinSize().Height
	if len(d.Labels) == 0 {
		r.chart.setBars(nil)
		return
	}

	switch {
	case d.Kind == explorer.KindLine:
		r.layoutLine(size, top)
	case d.Orientation == explorer.Horizontal:
		r.layoutHorizontal(size, top)
	default:
		r.layoutVertical(size, top)
	}
}

// layoutHorizontal draws one row per label with the bar growing rightwards
// out of a fixed label gutter.
func (r *chartRenderer) layoutHorizontal(size fyne.Size, top float32) {
	d := r.chart.data
	rows := len(d.Labels)
	plotW := size.Width - axisGutter - chartPadding*2
	plotH := size.Height - top - chartPadding
	if plotW < 1 || plotH < 1 {
		return
	}
	rowH := plotH / float32(rows)
	barH := rowH - barGap
	if barH < 4 {
		barH = 4
	}
	maxVal := r.maxValue()

	var regions []barRegion
	for i := range d.Labels {
		y := top + float32(i)*rowH
		r.placeLabelLines(i, chartPadding, y, axisGutter-chartPadding, rowH)

		x := chartPadding + axisGutter
		posW := plotW * float32(d.Primary[i]) / maxVal
		r.primary[i].Move(fyne.NewPos(x, y+barGap/2))
		r.primary[i].Resize(fyne.NewSize(posW, barH))
		width := posW
		if i < len(r.secondary) {
			negW := plotW * float32(d.Secondary[i]) / maxVal
			r.secondary[i].Move(fyne.NewPos(x+posW, y+barGap/2))
			r.secondary[i].Resize(fyne.NewSize(negW, barH))
			width += negW
		}
		if i < len(r.values) {
			r.values[i].Move(fyne.NewPos(x+width+4, y+(rowH-r.values[i].MinSize().Height)/2))
		}
		regions = append(regions, barRegion{
			index: i,
			pos:   fyne.NewPos(x, y),
			size:  fyne.NewSize(plotW, rowH),
		})
	}
	r.chart.setBars(regions)
}

// layoutVertical draws one column per label with the bar growing upwards and
// the wrapped label lines stacked underneath.
func (r *chartRenderer) layoutVertical(size fyne.Size, top float32) {
	d := r.chart.data
	cols := len(d.Labels)
	labelArea := r.maxLabelHeight() + barGap
	plotW := size.Width - chartPadding*2
	plotH := size.Height - top - chartPadding - labelArea
	if plotW < 1 || plotH < 1 {
		return
	}
	colW := plotW / float32(cols)
	barW := colW - barGap
	if barW < 4 {
		barW = 4
	}
	maxVal := r.maxValue()
	baseline := top + plotH

	var regions []barRegion
	for i := range d.Labels {
		x := chartPadding + float32(i)*colW
		posH := plotH * float32(d.Primary[i]) / maxVal
		var negH float32
		if i < len(r.secondary) {
			negH = plotH * float32(d.Secondary[i]) / maxVal
			r.secondary[i].Move(fyne.NewPos(x+barGap/2, baseline-posH-negH))
			r.secondary[i].Resize(fyne.NewSize(barW, negH))
		}
		r.primary[i].Move(fyne.NewPos(x+barGap/2, baseline-posH))
		r.primary[i].Resize(fyne.NewSize(barW, posH))
		if i < len(r.values) {
			r.values[i].Move(fyne.NewPos(x+(colW-r.values[i].MinSize().Width)/2, baseline-posH-negH-r.values[i].MinSize().Height-2))
		}
		r.placeLabelLines(i, x, baseline+barGap/2, colW, labelArea)
		regions = append(regions, barRegion{
			index: i,
			pos:   fyne.NewPos(x, top),
			size:  fyne.NewSize(colW, plotH+labelArea),
		})
	}
	r.chart.setBars(regions)
}

// layoutLine places one point column per label, connects consecutive points
// and fills the area underneath.
func (r *chartRenderer) layoutLine(size fyne.Size, top float32) {
	d := r.chart.data
	n := len(d.Labels)
	labelArea := r.maxLabelHeight() + barGap
	plotW := size.Width - chartPadding*2
	plotH := size.Height - top - chartPadding - labelArea
	if plotW < 1 || plotH < 1 {
		return
	}
	colW := plotW / float32(n)
	maxVal := r.maxValue()
	baseline := top + plotH

	prev := fyne.NewPos(0, 0)
	for i := range d.Labels {
		x := chartPadding + float32(i)*colW + colW/2
		y := baseline - plotH*float32(d.Primary[i])/maxVal
		r.fills[i].Move(fyne.NewPos(x-colW/2+barGap/2, y))
		r.fills[i].Resize(fyne.NewSize(colW-barGap, baseline-y))
		if i > 0 {
			seg := r.segments[i-1]
			seg.Position1 = prev
			seg.Position2 = fyne.NewPos(x, y)
		}
		prev = fyne.NewPos(x, y)
		r.placeLabelLines(i, chartPadding+float32(i)*colW, baseline+barGap/2, colW, labelArea)
	}
	r.chart.setBars(nil)
}

func (r *chartRenderer) placeLabelLines(i int, x, y, w, h float32) {
	lines := r.labels[i]
	if len(lines) == 0 {
		return
	}
	lineH := lines[0].MinSize().Height
	total := lineH * float32(len(lines))
	offset := (h - total) / 2
	if offset < 0 {
		offset = 0
	}
	for j, line := range lines {
		lw := line.MinSize().Width
		lx := x
		if w > lw {
			lx = x + (w-lw)/2
		}
		line.Move(fyne.NewPos(lx, y+offset+float32(j)*lineH))
	}
}

func (r *chartRenderer) maxValue() float32 {
	d := r.chart.data
	max := 0.0
	for i := range d.Primary {
		v := d.Primary[i]
		if i < len(d.Secondary) {
			v += d.Secondary[i]
		}
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}
	return float32(max)
}

func (r *chartRenderer) maxLabelHeight() float32 {
	var max float32
	for _, lines := range r.labels {
		var h float32
		for _, line := range lines {
			h += line.MinSize().Height
		}
		if h > max {
			max = h
		}
	}
	return max
}

func (r *chartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(chartMinWidth, chartMinHeight)
}

func (r *chartRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *chartRenderer) Refresh() {
	for _, o := range r.objects {
		canvas.Refresh(o)
	}
}

func (r *chartRenderer) Destroy() {}

// chartArea implements explorer.Renderer on a grid of chart slots. Render
// replaces the occupant of a slot; the returned handle clears it again.
type chartArea struct {
	grid  *fyne.Container
	slots []*fyne.Container
}

func newChartArea(initialSlots int) *chartArea {
	a := &chartArea{}
	a.grid = container.NewGridWithColumns(2)
	for i := 0; i < initialSlots; i++ {
		a.addSlot()
	}
	return a
}

func (a *chartArea) addSlot() *fyne.Container {
	slot := container.NewMax()
	a.slots = append(a.slots, slot)
	a.grid.Add(slot)
	return a.grid.Objects[len(a.grid.Objects)-1].(*fyne.Container)
}

func (a *chartArea) slot(i int) *fyne.Container {
	for len(a.slots) <= i {
		a.addSlot()
	}
	return a.slots[i]
}

// Render must run on the UI thread; the session dispatches it there.
func (a *chartArea) Render(slot int, data explorer.ChartData, onSelect explorer.SelectFunc) explorer.ChartHandle {
	holder := a.slot(slot)
	holder.Objects = nil
	holder.Add(newChartWidget(data, onSelect))
	holder.Refresh()
	return &chartSlot{holder: holder}
}

type chartSlot struct {
	holder *fyne.Container
}

func (s *chartSlot) Close() {
	s.holder.Objects = nil
	s.holder.Refresh()
}
