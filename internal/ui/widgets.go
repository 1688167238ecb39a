package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// DropZone is a rounded outline marking the area files can be dropped on.
// It is drawn behind the select-file view and fills whatever space it is given.
type DropZone struct {
	widget.BaseWidget
}

// NewDropZone creates a new drop zone outline.
func NewDropZone() *DropZone {
	d := &DropZone{}
	d.ExtendBaseWidget(d)
	return d
}

// MinSize returns the minimum size of the zone.
func (d *DropZone) MinSize() fyne.Size {
	return fyne.NewSize(120, 80)
}

// CreateRenderer creates the renderer for the widget.
func (d *DropZone) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeWidth = 2
	rect.CornerRadius = 12

	r := &dropZoneRenderer{zone: d, rect: rect}
	r.updateColor()
	return r
}

type dropZoneRenderer struct {
	zone *DropZone
	rect *canvas.Rectangle
}

func (r *dropZoneRenderer) Layout(size fyne.Size) {
	inset := theme.Padding() * 2
	r.rect.Move(fyne.NewPos(inset, inset))
	r.rect.Resize(fyne.NewSize(size.Width-2*inset, size.Height-2*inset))
}

func (r *dropZoneRenderer) MinSize() fyne.Size {
	return r.zone.MinSize()
}

func (r *dropZoneRenderer) updateColor() {
	r.rect.StrokeColor = theme.Color(theme.ColorNameInputBorder)
}

func (r *dropZoneRenderer) Refresh() {
	r.updateColor()
	canvas.Refresh(r.rect)
}

func (r *dropZoneRenderer) Destroy() {}

func (r *dropZoneRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.rect}
}
