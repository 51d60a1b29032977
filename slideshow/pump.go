// Package slideshow paints a fixed rotation of QOI images onto an RGB565
// display, one full screen at a time.
//
// A Pump owns the only framebuffer and refills it in place for every image;
// a Scheduler drives the Pump on a fixed cadence and hands each filled frame
// to a Sink.
package slideshow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/flavioheleno/st7789/qoi"
	"github.com/flavioheleno/st7789/rgb565"
)

var (
	// ErrTooLarge is returned when an image has more pixels than the
	// framebuffer holds.
	ErrTooLarge = errors.New("slideshow: image larger than framebuffer")
	// ErrNoAssets is returned by a Scheduler without images.
	ErrNoAssets = errors.New("slideshow: no assets")
)

var discard = log.New(io.Discard, "", 0)

// Asset is one embedded image.
type Asset struct {
	Name string
	Data []byte // QOI stream
}

// Sink receives finished frames. pix holds big-endian RGB565 pixels, stride
// is the image width in pixels.
type Sink interface {
	DrawImage(pix []byte, stride int) error
}

// Frame describes the image currently held by a Pump's framebuffer. Pix
// aliases the framebuffer and is only valid until the next Fill.
type Frame struct {
	Name   string
	Header qoi.Header
	Pix    []byte
	// Decoded is the number of pixels taken from the stream. It is lower than
	// Header.Pixels() when the stream was truncated.
	Decoded int
	// Err is the decoder error that cut the stream short, if any.
	Err error
}

// Stride returns the width of the frame in pixels.
func (f *Frame) Stride() int {
	return int(f.Header.Width)
}

// Complete reports whether every pixel of the image was decoded.
func (f *Frame) Complete() bool {
	return uint64(f.Decoded) == f.Header.Pixels()
}

// Draw hands the frame to s.
func (f *Frame) Draw(s Sink) error {
	if err := s.DrawImage(f.Pix, f.Stride()); err != nil {
		return fmt.Errorf("slideshow: draw %s: %w", f.Name, err)
	}
	return nil
}

// Pump decodes assets into a single reusable RGB565 framebuffer.
type Pump struct {
	fb  []byte
	dec qoi.Decoder
	rd  bytes.Reader
	log *log.Logger
}

// NewPump allocates a framebuffer for width*height pixels. logger may be nil.
func NewPump(width, height int, logger *log.Logger) *Pump {
	if logger == nil {
		logger = discard
	}
	return &Pump{
		fb:  make([]byte, 2*width*height),
		log: logger,
	}
}

// Capacity returns how many pixels the framebuffer holds.
func (p *Pump) Capacity() int {
	return len(p.fb) / 2
}

// Fill decodes a into the framebuffer. Header problems and oversized images
// are returned as errors. A truncated stream is not: the missing pixels are
// painted black and the shortfall is reported in the returned Frame.
func (p *Pump) Fill(a Asset) (Frame, error) {
	p.rd.Reset(a.Data)
	if err := p.dec.Reset(&p.rd); err != nil {
		return Frame{}, fmt.Errorf("slideshow: %s: %w", a.Name, err)
	}

	h := p.dec.Header
	if h.Pixels() > uint64(p.Capacity()) {
		return Frame{}, fmt.Errorf("%w: %s is %dx%d, room for %d pixels",
			ErrTooLarge, a.Name, h.Width, h.Height, p.Capacity())
	}

	pix := p.fb[:2*h.Pixels()]
	n := 0
	for dst := pix; len(dst) > 0 && p.dec.Next(); dst = dst[2:] {
		rgb565.PutBE(dst, rgb565.FromNRGBA(p.dec.Pixel()))
		n++
	}

	f := Frame{Name: a.Name, Header: h, Pix: pix, Decoded: n}
	if !f.Complete() {
		f.Err = p.dec.Err()
		clear(pix[2*n:])
		p.log.Printf("%s: decoded %d of %d pixels (%v)", a.Name, n, h.Pixels(), f.Err)
		return f, nil
	}
	if err := p.dec.Trailer(); err != nil {
		p.log.Printf("%s: %v", a.Name, err)
	}
	return f, nil
}
