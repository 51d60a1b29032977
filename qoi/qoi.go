// Package qoi decodes images in the Quite OK Image format.
//
// The decoder is a single-pass pull iterator over the pixels of a stream. It
// keeps no buffers besides the 64-entry index cache, so one Decoder value can
// be reset and reused for every image without allocating.
package qoi

import (
	"errors"
	"image/color"
)

const (
	opIndex = 0x00 // 00xxxxxx
	opDiff  = 0x40 // 01xxxxxx
	opLuma  = 0x80 // 10xxxxxx
	opRun   = 0xc0 // 11xxxxxx
	opRGB   = 0xfe // 11111110
	opRGBA  = 0xff // 11111111

	mask2 = 0xc0 // 11000000
)

// HeaderSize is the length of the fixed header at the start of a stream.
const HeaderSize = 14

// MaxPixels bounds the images Decode is willing to allocate.
const MaxPixels = 400_000_000

// Magic is the 4-byte signature of a QOI stream.
const Magic = "qoif"

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

var (
	ErrShortHeader   = errors.New("qoi: header too short")
	ErrBadMagic      = errors.New("qoi: bad magic value")
	ErrZeroSize      = errors.New("qoi: zero width or height")
	ErrBadChannels   = errors.New("qoi: bad channel count")
	ErrBadColorspace = errors.New("qoi: bad colorspace")
	ErrTruncated     = errors.New("qoi: stream ends mid-chunk")
	ErrBadTrailer    = errors.New("qoi: bad end marker")
)

// Colorspace is the informative colorspace byte of the header.
type Colorspace uint8

const (
	SRGB   Colorspace = 0 // sRGB with linear alpha
	Linear Colorspace = 1 // all channels linear
)

func (c Colorspace) String() string {
	switch c {
	case SRGB:
		return "sRGB"
	case Linear:
		return "linear"
	}
	return "unknown"
}

// Header is the parsed 14-byte stream header.
type Header struct {
	Width, Height uint32
	Channels      uint8
	Colorspace    Colorspace
}

// Pixels returns the number of pixels a well-formed stream carries.
func (h Header) Pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

// opaque is the initial value of the previous pixel.
var opaque = color.NRGBA{0, 0, 0, 255}

// hash returns the index cache slot of px. Every product wraps at 8 bits.
func hash(px color.NRGBA) uint8 {
	return (px.R*3 + px.G*5 + px.B*7 + px.A*11) % 64
}
