package infospot

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS prints frame and tick rates in the top-left corner.
	ShowFPS bool
	// Update runs every tick before pointer tracking and Board.Update.
	// Returning ebiten.Termination closes the window without error.
	Update func() error
	// ManualHover turns off TrackPointer; the Update hook drives hover.
	ManualHover bool
}

// Run opens a window and drives b until it is closed or Update returns an
// error.
func Run(b *Board, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)

	err := ebiten.RunGame(&game{board: b, cfg: cfg})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts a Board to ebiten.Game.
type game struct {
	board *Board
	cfg   RunConfig
}

func (g *game) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	if !g.cfg.ManualHover {
		g.board.TrackPointer()
	}
	g.board.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.board.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
