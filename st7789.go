package st7789

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/flavioheleno/st7789/rgb565"
)

// Controller commands.
const (
	cmdSWRESET  = 0x01
	cmdSLPIN    = 0x10
	cmdSLPOUT   = 0x11
	cmdNORON    = 0x13
	cmdINVOFF   = 0x20
	cmdINVON    = 0x21
	cmdDISPOFF  = 0x28
	cmdDISPON   = 0x29
	cmdCASET    = 0x2A
	cmdRASET    = 0x2B
	cmdRAMWR    = 0x2C
	cmdMADCTL   = 0x36
	cmdVSCRSADD = 0x37
	cmdCOLMOD   = 0x3A
)

const (
	ramWidth  = 240
	ramHeight = 320

	defaultMaxTx = 4096
)

var errHalted = errors.New("st7789: halted")

// sleep is replaced in tests.
var sleep = time.Sleep

// Rotation is the orientation of the panel.
type Rotation uint8

const (
	Rotate0   Rotation = iota // Portrait
	Rotate90                  // Landscape
	Rotate180                 // Portrait, upside down
	Rotate270                 // Landscape, upside down
)

// madctl returns the memory access control value for the rotation.
func (r Rotation) madctl() byte {
	switch r {
	case Rotate90:
		return 0x60 // MX | MV
	case Rotate180:
		return 0xC0 // MY | MX
	case Rotate270:
		return 0xA0 // MY | MV
	}
	return 0x00
}

// swapped reports whether rows and columns trade places.
func (r Rotation) swapped() bool {
	return r == Rotate90 || r == Rotate270
}

// Opts is the configuration for the ST7789 display.
type Opts struct {
	// Visible area in pixels, after rotation
	W int
	H int

	// Position of the visible area in controller RAM, after rotation
	XOffset int
	YOffset int

	Rotation Rotation
	Invert   bool // Most IPS panels need inverted colors

	// SPI clock (default: 40MHz)
	Freq physic.Frequency

	// Optional pins, nil if not used
	RST gpio.PinIO  // Reset pin
	BL  gpio.PinOut // Backlight pin
}

// Pico1 is the 1.14" 240x135 panel of the Pimoroni Pico Display and the
// TTGO T-Display, in landscape.
var Pico1 = Opts{W: 240, H: 135, XOffset: 40, YOffset: 53, Rotation: Rotate90, Invert: true}

func (o *Opts) validate() error {
	maxW, maxH := ramWidth, ramHeight
	if o.Rotation.swapped() {
		maxW, maxH = ramHeight, ramWidth
	}
	if o.Rotation > Rotate270 {
		return fmt.Errorf("st7789: invalid rotation %d", o.Rotation)
	}
	if o.W <= 0 || o.XOffset < 0 || o.W+o.XOffset > maxW {
		return fmt.Errorf("st7789: width plus x offset must be between 1 and %d", maxW)
	}
	if o.H <= 0 || o.YOffset < 0 || o.H+o.YOffset > maxH {
		return fmt.Errorf("st7789: height plus y offset must be between 1 and %d", maxH)
	}
	return nil
}

// Dev is the device handle for the ST7789 display.
type Dev struct {
	// Communication
	c     conn.Conn   // SPI connection
	dc    gpio.PinOut // Data/Command pin
	rst   gpio.PinIO  // Reset pin (optional)
	bl    gpio.PinOut // Backlight pin (optional)
	maxTx int         // Largest single SPI transfer

	// Display geometry
	rect       image.Rectangle
	xOff, yOff int

	// Scratch image for Draw, allocated on first use
	next *rgb565.BigEndian

	// State
	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// NewSPI creates a new ST7789 device connected via SPI.
//
// The SPI port is configured for Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
// The dc (Data/Command) GPIO pin must be provided and configured as an output.
//
// opts can be nil to use the Pico1 panel.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := Pico1
		opts = &o
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("st7789: dc pin is required")
	}

	freq := opts.Freq
	if freq == 0 {
		freq = 40 * physic.MegaHertz
	}
	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}

	d := &Dev{
		c:     c,
		dc:    dc,
		rst:   opts.RST,
		bl:    opts.BL,
		maxTx: defaultMaxTx,
		rect:  image.Rect(0, 0, opts.W, opts.H),
		xOff:  opts.XOffset,
		yOff:  opts.YOffset,
	}
	// spidev caps a single transfer, usually at 4096 bytes
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		d.maxTx = l.MaxTxSize()
	}

	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	// Hardware reset sequence (if RST pin is provided)
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("st7789: failed to pull RST low: %w", err)
		}
		sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("st7789: failed to pull RST high: %w", err)
		}
		sleep(120 * time.Millisecond)
	}

	if err := d.sendCommand(cmdSWRESET); err != nil {
		return err
	}
	sleep(150 * time.Millisecond)
	if err := d.sendCommand(cmdSLPOUT); err != nil {
		return err
	}
	sleep(10 * time.Millisecond)

	inv := byte(cmdINVOFF)
	if opts.Invert {
		inv = cmdINVON
	}
	seq := []struct {
		cmd    byte
		params []byte
	}{
		{cmdCOLMOD, []byte{0x55}}, // 16 bits per pixel
		{cmdMADCTL, []byte{opts.Rotation.madctl()}},
		{inv, nil},
		{cmdNORON, nil},
		{cmdDISPON, nil},
	}
	for _, s := range seq {
		if err := d.sendCommand(s.cmd, s.params...); err != nil {
			return err
		}
	}

	if d.bl != nil {
		if err := d.bl.Out(gpio.High); err != nil {
			return fmt.Errorf("st7789: failed to turn on backlight: %w", err)
		}
	}
	return nil
}

// sendCommand sends a command byte followed by its parameters.
func (d *Dev) sendCommand(cmd byte, params ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return d.sendData(params)
}

// sendData sends data bytes, split to fit the bus transfer limit.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := min(len(data), d.maxTx)
		if err := d.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// setWindow selects a rectangle of the visible area and starts a RAM write.
func (d *Dev) setWindow(x, y, width, height int) error {
	x0, x1 := x+d.xOff, x+d.xOff+width-1
	y0, y1 := y+d.yOff, y+d.yOff+height-1
	if err := d.sendCommand(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.sendCommand(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.sendCommand(cmdRAMWR)
}

// writeRect writes pixel data to a rectangular region of the display.
func (d *Dev) writeRect(x, y, width, height int, pixels []byte) error {
	if err := d.setWindow(x, y, width, height); err != nil {
		return err
	}
	return d.sendData(pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// DrawImage paints big-endian RGB565 pixels at the top-left corner of the
// display. stride is the image width in pixels; the height follows from
// len(pix).
func (d *Dev) DrawImage(pix []byte, stride int) error {
	if d.halted {
		return errHalted
	}
	if stride <= 0 || len(pix) == 0 || len(pix)%(2*stride) != 0 {
		return errors.New("st7789: invalid image size")
	}
	height := len(pix) / (2 * stride)
	if stride > d.rect.Dx() || height > d.rect.Dy() {
		return fmt.Errorf("st7789: %dx%d image does not fit %dx%d display",
			stride, height, d.rect.Dx(), d.rect.Dy())
	}
	return d.writeRect(0, 0, stride, height, pix)
}

// Write writes raw big-endian RGB565 data covering the whole display.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != 2*d.rect.Dx()*d.rect.Dy() {
		return 0, errors.New("st7789: invalid buffer size")
	}
	if err := d.writeFullFrame(pixels); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Fill paints the whole display with c.
func (d *Dev) Fill(c rgb565.Color) error {
	if d.halted {
		return errHalted
	}
	if err := d.setWindow(0, 0, d.rect.Dx(), d.rect.Dy()); err != nil {
		return err
	}

	total := 2 * d.rect.Dx() * d.rect.Dy()
	chunk := make([]byte, min(total, max(2, d.maxTx&^1)))
	for i := 0; i < len(chunk); i += 2 {
		rgb565.PutBE(chunk[i:], c)
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for total > 0 {
		n := min(total, len(chunk))
		if err := d.c.Tx(chunk[:n], nil); err != nil {
			return err
		}
		total -= n
	}
	return nil
}

// Draw draws an image onto the display.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
// Only the dst region is transferred.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}

	// Clip to display bounds
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: if source is already big-endian RGB565 at full size
	if srcImg, ok := src.(*rgb565.BigEndian); ok {
		zeroPoint := image.Point{}
		if dst == d.rect && sp == zeroPoint && srcImg.Rect == d.rect && srcImg.Stride == 2*d.rect.Dx() {
			return d.writeFullFrame(srcImg.Pix)
		}
	}

	if d.next == nil {
		d.next = rgb565.NewBigEndian(d.rect)
	}
	draw.Draw(d.next, dst, src, sp, draw.Src)

	return d.writeRect(dst.Min.X, dst.Min.Y, dst.Dx(), dst.Dy(), d.extractRegion(dst))
}

// extractRegion copies the rows of r out of the scratch image.
func (d *Dev) extractRegion(r image.Rectangle) []byte {
	if r == d.rect {
		return d.next.Pix
	}
	rowBytes := 2 * r.Dx()
	result := make([]byte, rowBytes*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := d.next.PixOffset(r.Min.X, y)
		copy(result[(y-r.Min.Y)*rowBytes:], d.next.Pix[start:start+rowBytes])
	}
	return result
}

// writeFullFrame writes the entire frame buffer to the display.
func (d *Dev) writeFullFrame(pixels []byte) error {
	return d.writeRect(0, 0, d.rect.Dx(), d.rect.Dy(), pixels)
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	mode := byte(cmdINVOFF)
	if invert {
		mode = cmdINVON
	}
	return d.sendCommand(mode)
}

// SetScroll sets the first RAM line shown at the top of the display. It only
// has a visible effect along the 320-line axis of the controller.
func (d *Dev) SetScroll(line int) error {
	if d.halted {
		return errHalted
	}
	if line < 0 || line >= ramHeight {
		return errors.New("st7789: scroll line out of range")
	}
	return d.sendCommand(cmdVSCRSADD, byte(line>>8), byte(line))
}

// Halt turns the display off and puts the controller to sleep.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.sendCommand(cmdDISPOFF); err != nil {
		return err
	}
	if err := d.sendCommand(cmdSLPIN); err != nil {
		return err
	}
	if d.bl != nil {
		return d.bl.Out(gpio.Low)
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7789.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
