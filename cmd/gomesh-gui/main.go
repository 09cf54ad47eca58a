package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	meshapp "github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/internal/logger"
	"github.com/philipparndt/gomesh/pkg/viewer"
	"github.com/philipparndt/gomesh/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	debug      bool
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:          "gomesh-gui [files or directory...]",
	Short:        "Desktop viewer for STL and OBJ meshes",
	Version:      version.GetFullVersion(),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a gomesh.yaml config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the current file when it changes")
}

// App is the desktop window around one viewer session
type App struct {
	cfg      *config.Config
	window   fyne.Window
	snapshot *viewer.Snapshot
	viewport *Viewport

	viewer   *meshapp.Viewer
	list     *widget.List
	progress *widget.ProgressBarInfinite
	status   *widget.Label
	info     *widget.Label
}

func run(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	if watch {
		cfg.Watch.Enabled = true
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	a := fyneapp.New()
	w := a.NewWindow("gomesh")

	snapshot := cfg.NewSnapshot()
	appInstance := &App{
		cfg:      cfg,
		window:   w,
		snapshot: snapshot,
		viewport: NewViewport(snapshot),
	}
	defer appInstance.close()

	if len(args) > 0 {
		if err := appInstance.open(args); err != nil {
			return err
		}
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(float32(cfg.Render.Width)+300, float32(cfg.Render.Height)))
	w.ShowAndRun()
	return nil
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to gomesh")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a folder to browse its STL and OBJ files")

	openButton := widget.NewButton("Open Folder", func() {
		a.showFolderDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFolderDialog() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if uri == nil {
			return
		}
		if err := a.open([]string{uri.Path()}); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
}

// open replaces the current session with one over args
func (a *App) open(args []string) error {
	n := &sessionNotifier{app: a}
	v, err := meshapp.Open(a.cfg, args, a.snapshot, meshapp.WithNotifier(n))
	if err != nil {
		return err
	}
	n.viewer = v
	a.close()
	a.viewer = v
	a.setupMainUI()
	a.viewport.SetViewer(v)
	v.LoadFile(0)
	return nil
}

func (a *App) close() {
	if a.viewer != nil {
		if err := a.viewer.Close(); err != nil {
			logger.Warn("failed to close viewer", zap.Error(err))
		}
		a.viewer = nil
	}
}

func (a *App) setupMainUI() {
	entries := a.viewer.Entries()

	a.list = widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject { return widget.NewLabel("template.stl") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			item.(*widget.Label).SetText(entries[id].Name())
		},
	)
	a.list.OnSelected = func(id widget.ListItemID) {
		// Selection also follows loads started elsewhere
		if current, _ := a.viewer.Current(); current != id {
			a.viewer.LoadFile(id)
		}
	}

	a.progress = widget.NewProgressBarInfinite()
	a.progress.Hide()
	a.status = widget.NewLabel("")
	a.status.Truncation = fyne.TextTruncateEllipsis
	a.info = widget.NewLabel("")

	prevButton := widget.NewButton("Previous", func() { a.viewer.Prev() })
	nextButton := widget.NewButton("Next", func() { a.viewer.Next() })
	reloadButton := widget.NewButton("Reload", func() { a.viewer.ReloadCurrent() })
	openButton := widget.NewButton("Open Folder", func() { a.showFolderDialog() })

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Drag to rotate the view\n" +
			"• Scroll to zoom in/out\n" +
			"• Left/Right to change file\n" +
			"• R to reload",
	)
	instructions.Wrapping = fyne.TextWrapWord

	sidePanel := container.NewBorder(
		container.NewVBox(
			widget.NewLabel(fmt.Sprintf("Files (%d):", len(entries))),
			widget.NewSeparator(),
		),
		container.NewVBox(
			widget.NewSeparator(),
			a.info,
			widget.NewSeparator(),
			instructions,
			container.NewGridWithColumns(2, prevButton, nextButton),
			container.NewGridWithColumns(2, reloadButton, openButton),
		),
		nil,
		nil,
		a.list,
	)

	bottom := container.NewBorder(nil, nil, nil, a.progress, a.status)
	split := container.NewHSplit(a.viewport, sidePanel)
	split.Offset = 0.75

	a.window.SetContent(container.NewBorder(nil, bottom, nil, nil, split))
	a.window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyRight:
			a.viewer.Next()
		case fyne.KeyLeft:
			a.viewer.Prev()
		case fyne.KeyR:
			a.viewer.ReloadCurrent()
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
