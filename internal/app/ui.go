package app

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"reviewexplorer/desktop/explorer"
)

const (
	statusReady      = "Готов к поиску"
	statusProcessing = "⏳ Идет обработка данных..."
	statusDone       = "✅ Аналитика готова"
	statusShortQuery = "Введите название (минимум 3 символа)"
	noMatchesText    = "Не найдено"

	// Drill-down lists render eagerly, so they are capped instead of
	// virtualized; upstream example lists stay far below this.
	maxDrilldownRows = 200
)

type counterTile struct {
	value *canvas.Text
	box   fyne.CanvasObject
}

func newCounterTile(caption string, clr color.Color) *counterTile {
	value := canvas.NewText("0", clr)
	value.TextSize = 22
	value.TextStyle = fyne.TextStyle{Bold: true}
	value.Alignment = fyne.TextAlignCenter
	label := widget.NewLabelWithStyle(caption, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	return &counterTile{
		value: value,
		box:   container.NewVBox(value, label),
	}
}

func (t *counterTile) set(n int) {
	t.value.Text = fmt.Sprintf("%d", n)
	canvas.Refresh(t.value)
}

// uiState owns every widget of the explorer window. It implements both the
// session's View and the suggester's SuggestionView, so all shared display
// state is mutated from exactly one place on the UI thread.
type uiState struct {
	log *zap.Logger
	w   fyne.Window

	session   *explorer.Session
	suggester *explorer.Suggester
	annotator *explorer.Annotator

	search     *widget.Entry
	searchBtn  *widget.Button
	suggestBox *fyne.Container
	suggestPop *suggestPopUp
	status     *widget.Label

	resultBox *fyne.Container
	title     *widget.Label
	total     *counterTile
	positive  *counterTile
	negative  *counterTile
	neutral   *counterTile
	charts    *chartArea

	sidePanel   *fyne.Container
	sideTitle   *widget.Label
	sideContent *fyne.Container

	// SetText on the search entry fires OnChanged like a keystroke; this
	// flag keeps programmatic fills from re-triggering the suggester.
	fillingSearch bool
}

func buildUI(a fyne.App, cfg explorer.Config, client *explorer.Client, log *zap.Logger) *uiState {
	u := &uiState{log: log}
	u.w = a.NewWindow("Review Explorer")

	u.charts = newChartArea(4)
	u.session = explorer.NewSession(client, u.charts, u, fyne.Do, log)
	u.suggester = explorer.NewSuggester(client, u, u.onSuggestionSelected, fyne.Do, log)
	u.suggester.SetDelay(cfg.SuggestDelay())
	// No map widget ships in this build; the annotator stays dormant until a
	// surface implementation is wired in.
	u.annotator = explorer.NewAnnotator(nil, client, u.session.Submit, log)
	go u.annotator.Load(context.Background())

	u.search = widget.NewEntry()
	u.search.SetPlaceHolder("Название школы...")
	u.search.OnChanged = func(text string) {
		if u.fillingSearch {
			return
		}
		u.suggester.OnInput(text)
	}
	u.search.OnSubmitted = func(string) { u.onSearch() }

	u.searchBtn = widget.NewButtonWithIcon("Анализировать", theme.SearchIcon(), u.onSearch)
	u.suggestBox = container.NewVBox()
	u.status = widget.NewLabel(statusReady)

	u.title = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	u.total = newCounterTile("ВСЕГО", axisTextColor)
	u.positive = newCounterTile("ПОЗИТИВ", primaryColor)
	u.negative = newCounterTile("НЕГАТИВ", secondaryColor)
	u.neutral = newCounterTile("НЕЙТРАЛ", axisTextColor)
	counters := container.NewGridWithColumns(4, u.total.box, u.positive.box, u.negative.box, u.neutral.box)

	u.resultBox = container.NewVBox(
		u.title,
		counters,
		widget.NewSeparator(),
		u.charts.grid,
	)
	u.resultBox.Hide()

	u.sideTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	u.sideContent = container.NewVBox()
	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), u.closeReviews)
	sideScroll := container.NewVScroll(u.sideContent)
	sideScroll.SetMinSize(fyne.NewSize(320, 400))
	u.sidePanel = container.NewBorder(
		container.NewBorder(nil, nil, nil, closeBtn, u.sideTitle),
		nil, nil, nil,
		sideScroll,
	)
	u.sidePanel.Hide()

	searchRow := container.NewBorder(nil, nil, nil, u.searchBtn, u.search)
	topBox := container.NewVBox(searchRow, u.status)
	main := container.NewBorder(topBox, nil, nil, nil, container.NewVScroll(u.resultBox))

	u.w.SetContent(container.NewBorder(nil, nil, nil, u.sidePanel, main))
	u.w.Resize(fyne.NewSize(1180, 760))
	u.w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			u.suggester.Dismiss()
		}
	})
	return u
}

// onSearch is the manual submit path; it enforces the minimum length the
// programmatic paths are allowed to bypass.
func (u *uiState) onSearch() {
	q := explorer.NormalizeQuery(u.search.Text)
	if !explorer.Submittable(q) {
		u.status.SetText(statusShortQuery)
		return
	}
	u.session.Submit(q)
}

func (u *uiState) onSuggestionSelected(sch explorer.School) {
	u.fillSearch(sch.FullName)
	u.session.Submit(sch.FullName)
	u.annotator.Focus(sch)
}

func (u *uiState) fillSearch(text string) {
	u.fillingSearch = true
	u.search.SetText(text)
	u.fillingSearch = false
}

// --- explorer.SuggestionView ---

func (u *uiState) ShowSuggestions(items []explorer.School) {
	u.suggestBox.Objects = nil
	for _, sch := range items {
		sch := sch
		marker := "○"
		text := sch.DisplayName()
		if sch.HasReviews() {
			marker = "●"
			text = fmt.Sprintf("%s — %d отзывов", text, sch.ReviewCount)
		}
		btn := widget.NewButton(fmt.Sprintf("%s %s", marker, text), func() {
			u.suggester.Select(sch)
		})
		btn.Alignment = widget.ButtonAlignLeading
		btn.Importance = widget.LowImportance
		u.suggestBox.Add(btn)
	}
	u.openSuggestPopUp()
}

func (u *uiState) ShowNoMatches() {
	u.suggestBox.Objects = nil
	u.suggestBox.Add(widget.NewLabel(noMatchesText))
	u.openSuggestPopUp()
}

func (u *uiState) HideSuggestions() {
	if u.suggestPop != nil {
		u.suggestPop.Hide()
	}
}

// openSuggestPopUp floats the candidate list under the search entry. The
// pop-up's backdrop gives the global dismiss: a click anywhere outside the
// list lands on it and runs through the suggester.
func (u *uiState) openSuggestPopUp() {
	if u.suggestPop == nil {
		u.suggestPop = newSuggestPopUp(u.suggestBox, u.w.Canvas(), u.suggester.Dismiss)
	}
	u.suggestBox.Refresh()
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(u.search)
	u.suggestPop.ShowAtPosition(pos.Add(fyne.NewPos(0, u.search.Size().Height)))
	u.suggestPop.Resize(fyne.NewSize(u.search.Size().Width, u.suggestBox.MinSize().Height))
}

// --- explorer.View ---

func (u *uiState) AnalysisStarted(query string) {
	u.fillSearch(query)
	u.HideSuggestions()
	u.searchBtn.Disable()
	u.resultBox.Show()
	u.status.SetText(statusProcessing)
}

func (u *uiState) AnalysisFailed(message string) {
	u.status.SetText("❌ " + message)
	u.searchBtn.Enable()
}

func (u *uiState) AnalysisReady(result *explorer.AnalysisResult) {
	u.title.SetText(result.SchoolName)
	u.total.set(result.Stats.Total)
	u.positive.set(result.Stats.Positive)
	u.negative.set(result.Stats.Negative)
	u.neutral.set(result.Stats.Neutral)
	u.status.SetText(statusDone)
	u.searchBtn.Enable()
}

func (u *uiState) ShowReviews(title string, examples []string) {
	u.sideTitle.SetText(title)
	u.sideContent.Objects = nil
	if len(examples) > maxDrilldownRows {
		examples = examples[:maxDrilldownRows]
	}
	for _, text := range examples {
		lbl := widget.NewLabel(text)
		lbl.Wrapping = fyne.TextWrapWord
		u.sideContent.Add(lbl)
		u.sideContent.Add(widget.NewSeparator())
	}
	u.sideContent.Refresh()
	u.sidePanel.Show()
}

func (u *uiState) closeReviews() {
	u.sidePanel.Hide()
}
