// Package sim shows the slideshow in a desktop window instead of on a panel.
//
// A Frame receives the same big-endian RGB565 buffers a display would, and Run
// opens an ebiten window that presents the latest one.
package sim

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/flavioheleno/st7789/rgb565"
)

// Frame holds the last image painted by a slideshow. It is safe for use by the
// scheduler goroutine and the window at the same time.
type Frame struct {
	mu   sync.Mutex
	rgba *image.RGBA
	seq  uint64
}

// NewFrame returns a black width x height frame.
func NewFrame(width, height int) *Frame {
	f := &Frame{rgba: image.NewRGBA(image.Rect(0, 0, width, height))}
	draw.Draw(f.rgba, f.rgba.Rect, image.Black, image.Point{}, draw.Src)
	return f
}

// Bounds returns the size of the simulated panel.
func (f *Frame) Bounds() image.Rectangle {
	return f.rgba.Rect
}

// DrawImage paints big-endian RGB565 pixels at the top-left corner, like
// st7789.Dev.DrawImage.
func (f *Frame) DrawImage(pix []byte, stride int) error {
	if stride <= 0 || len(pix) == 0 || len(pix)%(2*stride) != 0 {
		return errors.New("sim: invalid image size")
	}
	src := &rgb565.BigEndian{
		Pix:    pix,
		Stride: 2 * stride,
		Rect:   image.Rect(0, 0, stride, len(pix)/(2*stride)),
	}
	if !src.Rect.In(f.rgba.Rect) {
		return fmt.Errorf("sim: %dx%d image does not fit %dx%d window",
			src.Rect.Dx(), src.Rect.Dy(), f.rgba.Rect.Dx(), f.rgba.Rect.Dy())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	draw.Draw(f.rgba, src.Rect, src, image.Point{}, draw.Src)
	f.seq++
	return nil
}

// Snapshot copies the RGBA pixels into dst when they changed since seq, and
// returns the current sequence number.
func (f *Frame) Snapshot(dst []byte, seq uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq != seq {
		copy(dst, f.rgba.Pix)
	}
	return f.seq
}
