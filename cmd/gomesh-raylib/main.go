package main

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/internal/logger"
	"github.com/philipparndt/gomesh/pkg/viewer"
	"github.com/philipparndt/gomesh/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "gomesh-raylib <files or directory...>",
	Short: "GPU accelerated STL and OBJ viewer",
	Long: `gomesh-raylib shows a list of STL and OBJ meshes one at a time.
Drag to orbit, scroll to zoom, use the arrow keys to move through the list
and R to reload the current file. W toggles the wireframe, F the filled
surface.`,
	Version:      version.GetFullVersion(),
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a gomesh.yaml config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the current file when it changes")
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

	background, model, err := cfg.Colors()
	if err != nil {
		return err
	}

	renderer := newGPURenderer(viewer.DefaultLighting(), model)
	status := &statusLine{}
	v, err := app.Open(cfg, args, renderer, app.WithNotifier(status))
	if err != nil {
		return err
	}
	defer v.Close()

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(int32(cfg.Render.Width), int32(cfg.Render.Height), "gomesh")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	renderer.setup()
	defer renderer.unload()

	v.LoadFile(0)

	camera := rl.Camera3D{
		Fovy:       float32(cfg.Render.FOV),
		Projection: rl.CameraPerspective,
	}

	showFilled := true
	showWireframe := false

	for !rl.WindowShouldClose() {
		// Upload a newly loaded mesh (must be on main thread)
		renderer.sync()

		handleInput(v)
		if rl.IsKeyPressed(rl.KeyW) {
			showWireframe = !showWireframe
		}
		if rl.IsKeyPressed(rl.KeyF) {
			showFilled = !showFilled
		}
		updateCamera(&camera, v.View(), cfg.Render.FOV)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(background.R, background.G, background.B, background.A))

		rl.BeginMode3D(camera)
		if cfg.Render.Grid {
			rl.DrawGrid(50, 4)
		}
		if showFilled {
			renderer.draw()
		}
		if showWireframe {
			renderer.drawWireframe()
		}
		rl.EndMode3D()

		drawAxes(v.View())
		drawOverlay(v, status)

		rl.EndDrawing()
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
