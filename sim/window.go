//go:build !tinygo && cgo

package sim

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window showing f, scaled up by scale. It blocks until the window
// is closed or ctx is done, and must be called from the main goroutine.
func Run(ctx context.Context, f *Frame, title string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	g := &game{ctx: ctx, f: f, seq: ^uint64(0)}
	b := f.Bounds()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(b.Dx()*scale, b.Dy()*scale)
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

type game struct {
	ctx context.Context
	f   *Frame
	pix []byte
	img *ebiten.Image
	seq uint64
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	b := g.f.Bounds()
	if g.img == nil {
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
		g.pix = make([]byte, 4*b.Dx()*b.Dy())
	}
	if seq := g.f.Snapshot(g.pix, g.seq); seq != g.seq {
		g.seq = seq
		g.img.WritePixels(g.pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.f.Bounds()
	return b.Dx(), b.Dy()
}
