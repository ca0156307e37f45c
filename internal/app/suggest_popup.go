package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// suggestPopUp is a non-modal pop-up whose backdrop tap is routed to the
// suggester instead of silently hiding the overlay, so a scheduled lookup is
// dropped together with the list.
type suggestPopUp struct {
	widget.PopUp
	onDismiss func()
}

func newSuggestPopUp(content fyne.CanvasObject, canvas fyne.Canvas, onDismiss func()) *suggestPopUp {
	p := &suggestPopUp{onDismiss: onDismiss}
	p.Content = content
	p.Canvas = canvas
	p.ExtendBaseWidget(p)
	return p
}

func (p *suggestPopUp) Tapped(*fyne.PointEvent) {
	p.onDismiss()
}

func (p *suggestPopUp) TappedSecondary(*fyne.PointEvent) {
	p.onDismiss()
}
