package rgb565

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Color is a packed RGB565 value: red in bits 15-11, green in bits 10-5 and
// blue in bits 4-0.
type Color uint16

// Pack drops the low bits of each 8-bit component and packs the rest.
func Pack(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// FromNRGBA packs c, ignoring its alpha.
func FromNRGBA(c color.NRGBA) Color {
	return Pack(c.R, c.G, c.B)
}

// PutBE stores c into the first two bytes of b, high byte first.
func PutBE(b []byte, c Color) {
	binary.BigEndian.PutUint16(b, uint16(c))
}

// BE reads a color stored by PutBE.
func BE(b []byte) Color {
	return Color(binary.BigEndian.Uint16(b))
}

// RGB expands c back to 8-bit components. The top bits are replicated into
// the bottom ones so that full intensity maps to 0xFF.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color. RGB565 colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

func toColor(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	if v, ok := c.(color.NRGBA); ok {
		return FromNRGBA(v)
	}
	// premultiplied, so translucent colors come out composited over black
	r, g, b, _ := c.RGBA()
	return Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toColor)

// BigEndian is an RGB565 image stored in the byte order LCD controllers
// expect: two bytes per pixel, high byte first, rows top to bottom.
type BigEndian struct {
	Pix    []byte          // Pixel data (2 bytes per pixel)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewBigEndian creates a new BigEndian image with the specified bounds.
func NewBigEndian(r image.Rectangle) *BigEndian {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &BigEndian{Rect: r}
	}
	return &BigEndian{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *BigEndian) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *BigEndian) Bounds() image.Rectangle {
	return p.Rect
}

// Opaque reports true; RGB565 has no alpha channel.
func (p *BigEndian) Opaque() bool {
	return true
}

// At returns the color of the pixel at (x, y).
func (p *BigEndian) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the packed color of the pixel at (x, y).
func (p *BigEndian) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return BE(p.Pix[p.PixOffset(x, y):])
}

// Set sets the color of the pixel at (x, y).
func (p *BigEndian) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the packed color of the pixel at (x, y).
func (p *BigEndian) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	PutBE(p.Pix[p.PixOffset(x, y):], c)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *BigEndian) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
