// Infospot-viewer opens a window on a TOML scene of infospot markers. Move
// the mouse over a marker to grow it and reveal its text, click to pin the
// text in place, and pan the camera with the arrow keys.
package main

import (
	"context"
	"fmt"
	"math"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/infospot"
)

const (
	windowTitle = "Infospot Viewer"
	panSpeed    = math.Pi / 2 // radians per second
	maxPitch    = math.Pi/2 - 0.01
)

// viewer pans the camera and ends a scripted replay.
type viewer struct {
	camera *infospot.PanoramaProjector
	script *infospot.ScriptRunner
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		scriptPath string
	)

	root := &cobra.Command{
		Use:          "infospot-viewer",
		Short:        "Infospot-viewer displays interactive panorama markers",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	run := &cobra.Command{
		Use:   "run <scene.toml>",
		Short: "Open a window on a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := infospot.NewLogger(os.Stderr, level)
			return runViewer(args[0], scriptPath, logger)
		},
	}
	run.Flags().StringVarP(&scriptPath, "script", "s", "", "JSON interaction script to replay")

	check := &cobra.Command{
		Use:   "check <scene.toml>",
		Short: "Validate a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infospot.LoadSceneFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d markers, %dx%d, assets in %s\n",
				args[0], len(cfg.Markers), cfg.Board.Width, cfg.Board.Height, cfg.AssetDir())
			return nil
		},
	}

	root.AddCommand(run, check)
	return root
}

func runViewer(scenePath, scriptPath string, logger *charmlog.Logger) error {
	cfg, err := infospot.LoadSceneFile(scenePath)
	if err != nil {
		return err
	}

	bcfg := cfg.BoardConfig()
	bcfg.Logger = logger
	board, err := infospot.NewBoard(bcfg)
	if err != nil {
		return err
	}
	board.ClearColor = infospot.Color{R: 0.08, G: 0.09, B: 0.12, A: 1}
	board.SetDebugMode(logger.GetLevel() == charmlog.DebugLevel)

	markers, err := cfg.Populate(board)
	if err != nil {
		return err
	}
	for _, m := range markers {
		m.On(infospot.EventClick, func(e infospot.Event) {
			logger.Info("clicked", "marker", e.Name, "x", e.X, "y", e.Y)
		})
	}

	v := &viewer{camera: board.Projector().(*infospot.PanoramaProjector)}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		v.script, err = infospot.LoadScript(data)
		if err != nil {
			return err
		}
		board.SetScriptRunner(v.script)
	}

	return infospot.Run(board, infospot.RunConfig{
		Title:   windowTitle,
		Width:   cfg.Board.Width,
		Height:  cfg.Board.Height,
		ShowFPS: logger.GetLevel() == charmlog.DebugLevel,
		Update:  v.update,
	})
}

func (v *viewer) update() error {
	if v.script != nil && v.script.Done() {
		return ebiten.Termination
	}
	v.pan(1.0 / float64(ebiten.TPS()))
	return nil
}

func (v *viewer) pan(dt float64) {
	step := panSpeed * dt
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.camera.Yaw -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.camera.Yaw += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.camera.Pitch = min(v.camera.Pitch+step, maxPitch)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.camera.Pitch = max(v.camera.Pitch-step, -maxPitch)
	}
}
