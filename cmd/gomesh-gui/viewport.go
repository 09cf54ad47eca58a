package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	meshapp "github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/pkg/viewer"
)

// Viewport is a widget showing the software rendered mesh. Dragging orbits
// the camera and scrolling zooms.
type Viewport struct {
	widget.BaseWidget

	snapshot *viewer.Snapshot
	viewer   *meshapp.Viewer
	raster   *canvas.Raster
}

// NewViewport creates a viewport drawing with snapshot
func NewViewport(snapshot *viewer.Snapshot) *Viewport {
	v := &Viewport{snapshot: snapshot}
	v.raster = canvas.NewRaster(v.draw)
	v.raster.SetMinSize(fyne.NewSize(400, 300))
	v.ExtendBaseWidget(v)
	return v
}

// SetViewer connects the viewport to the viewer owning the view state
func (v *Viewport) SetViewer(mv *meshapp.Viewer) {
	v.viewer = mv
	v.Refresh()
}

func (v *Viewport) draw(width, height int) image.Image {
	state := viewer.DefaultLimits().Initial()
	if v.viewer != nil {
		state = v.viewer.View()
	}
	return v.snapshot.RenderAt(state, width, height)
}

// CreateRenderer implements fyne.Widget
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// Dragged implements fyne.Draggable
func (v *Viewport) Dragged(event *fyne.DragEvent) {
	if v.viewer == nil {
		return
	}
	v.viewer.Drag(float64(event.Dragged.DX), float64(event.Dragged.DY))
	v.raster.Refresh()
}

// DragEnd implements fyne.Draggable
func (v *Viewport) DragEnd() {}

// Scrolled implements fyne.Scrollable. Scrolling up moves towards the model.
func (v *Viewport) Scrolled(event *fyne.ScrollEvent) {
	if v.viewer == nil {
		return
	}
	v.viewer.Zoom(-float64(event.Scrolled.DY))
	v.raster.Refresh()
}
