package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	meshapp "github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/pkg/viewer"
)

// sessionNotifier forwards load progress of one viewer to the window.
// Updates from a viewer that is no longer the window's session are dropped.
type sessionNotifier struct {
	app    *App
	viewer *meshapp.Viewer
}

// LoadStarted implements meshapp.Notifier
func (n *sessionNotifier) LoadStarted(index, count int) {
	name := n.viewer.Entries()[index].Name()
	fyne.Do(func() {
		a := n.app
		if a.viewer != n.viewer {
			return
		}
		a.progress.Show()
		a.progress.Start()
		a.status.SetText(fmt.Sprintf("Loading %s...", name))
		a.list.Select(index)
	})
}

// LoadFinished implements meshapp.Notifier
func (n *sessionNotifier) LoadFinished(index, count int, err error) {
	name := n.viewer.Entries()[index].Name()
	g := n.viewer.Geometry()
	fyne.Do(func() {
		a := n.app
		if a.viewer != n.viewer {
			return
		}
		a.progress.Stop()
		a.progress.Hide()
		if err != nil {
			a.status.SetText(fmt.Sprintf("Failed to load %s: %v", name, err))
			return
		}

		a.snapshot.SetCaption(viewer.Caption(index, count))
		a.status.SetText(fmt.Sprintf("%s (%s)", name, viewer.Caption(index, count)))
		if g != nil {
			a.info.SetText(fmt.Sprintf(
				"Triangles: %d\n\nDimensions:\n  X: %.2f\n  Y: %.2f\n  Z: %.2f",
				g.TriangleCount(), g.Extent[0], g.Extent[1], g.Extent[2]))
		}
		a.viewport.Refresh()
	})
}
