package qoi

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"iter"
)

func init() {
	image.RegisterFormat("qoi", Magic, Decode, DecodeConfig)
}

// Decoder reads the pixels of a QOI stream one at a time.
//
// The pixel sequence is forward-only and cannot be restarted. Next does not
// stop at Width*Height: callers that need an exact count consume
// Header.Pixels() pixels and stop.
type Decoder struct {
	Header Header

	r     io.ByteReader
	cur   color.NRGBA
	index [64]color.NRGBA
	run   int
	n     uint64
	done  bool
	err   error
}

// NewDecoder parses the header of the stream read from r.
func NewDecoder(r io.ByteReader) (*Decoder, error) {
	d := &Decoder{}
	if err := d.Reset(r); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset discards all decoding state and parses a new header from r.
func (d *Decoder) Reset(r io.ByteReader) error {
	*d = Decoder{r: r, cur: opaque}

	h, err := readHeader(r)
	if err != nil {
		d.done = true
		d.err = err
		return err
	}
	d.Header = h
	return nil
}

func readHeader(r io.ByteReader) (Header, error) {
	var buf [HeaderSize]byte
	for i := range buf {
		b, err := r.ReadByte()
		if err == io.EOF {
			return Header{}, fmt.Errorf("%w: got %d of %d bytes", ErrShortHeader, i, HeaderSize)
		}
		if err != nil {
			return Header{}, err
		}
		buf[i] = b
	}

	if string(buf[:4]) != Magic {
		return Header{}, fmt.Errorf("%w: %q", ErrBadMagic, string(buf[:4]))
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(buf[4:8]),
		Height:     binary.BigEndian.Uint32(buf[8:12]),
		Channels:   buf[12],
		Colorspace: Colorspace(buf[13]),
	}
	if h.Width == 0 || h.Height == 0 {
		return h, fmt.Errorf("%w: %dx%d", ErrZeroSize, h.Width, h.Height)
	}
	if h.Channels != 3 && h.Channels != 4 {
		return h, fmt.Errorf("%w: %d", ErrBadChannels, h.Channels)
	}
	if h.Colorspace > Linear {
		return h, fmt.Errorf("%w: %d", ErrBadColorspace, h.Colorspace)
	}
	return h, nil
}

// read8 reads a chunk payload byte. Running out of input here is a
// truncation, not a clean end.
func (d *Decoder) read8() (byte, bool) {
	b, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = ErrTruncated
		}
		d.fail(err)
		return 0, false
	}
	return b, true
}

func (d *Decoder) fail(err error) {
	d.done = true
	d.err = err
}

// Next advances to the next pixel. It returns false once the input is
// exhausted or a chunk could not be read; Err tells the two apart.
func (d *Decoder) Next() bool {
	// inside a run the pixel and the cache are already up to date
	if d.run > 0 {
		d.run--
		d.n++
		return true
	}
	if d.done {
		return false
	}

	b1, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = nil
		}
		d.fail(err)
		return false
	}

	// the two full-byte tags share the run prefix and must be matched first
	switch {
	case b1 == opRGB:
		r, ok := d.read8()
		if !ok {
			return false
		}
		g, ok := d.read8()
		if !ok {
			return false
		}
		b, ok := d.read8()
		if !ok {
			return false
		}
		d.cur.R, d.cur.G, d.cur.B = r, g, b

	case b1 == opRGBA:
		var px [4]byte
		for i := range px {
			v, ok := d.read8()
			if !ok {
				return false
			}
			px[i] = v
		}
		d.cur = color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}

	case b1&mask2 == opIndex:
		d.cur = d.index[b1]

	case b1&mask2 == opDiff:
		d.cur.R += (b1>>4)&0x03 - 2
		d.cur.G += (b1>>2)&0x03 - 2
		d.cur.B += b1&0x03 - 2

	case b1&mask2 == opLuma:
		b2, ok := d.read8()
		if !ok {
			return false
		}
		dg := b1&0x3f - 32
		d.cur.R += dg + b2>>4 - 8
		d.cur.G += dg
		d.cur.B += dg + b2&0x0f - 8

	case b1&mask2 == opRun:
		d.run = int(b1 & 0x3f)
	}

	d.index[hash(d.cur)] = d.cur
	d.n++
	return true
}

// Pixel returns the pixel produced by the last call to Next.
func (d *Decoder) Pixel() color.NRGBA {
	return d.cur
}

// Count returns how many pixels have been produced so far.
func (d *Decoder) Count() uint64 {
	return d.n
}

// Err returns the error that ended the pixel sequence, or nil if the input
// ended cleanly on a chunk boundary.
func (d *Decoder) Err() error {
	return d.err
}

// All returns the remaining pixels as a sequence. Like Next, it consumes the
// decoder.
func (d *Decoder) All() iter.Seq[color.NRGBA] {
	return func(yield func(color.NRGBA) bool) {
		for d.Next() {
			if !yield(d.cur) {
				return
			}
		}
	}
}

// Trailer reads the 8-byte end marker that follows the last chunk. It is only
// meaningful once Header.Pixels() pixels have been consumed.
func (d *Decoder) Trailer() error {
	if d.err != nil {
		return d.err
	}
	if d.run > 0 {
		return fmt.Errorf("%w: %d pixels left in run", ErrBadTrailer, d.run)
	}
	var buf [len(endMarker)]byte
	for i := range buf {
		b, err := d.r.ReadByte()
		if err == io.EOF {
			return fmt.Errorf("%w: got %d of %d bytes", ErrBadTrailer, i, len(buf))
		}
		if err != nil {
			return err
		}
		buf[i] = b
	}
	if buf != endMarker {
		return fmt.Errorf("%w: % x", ErrBadTrailer, string(buf[:]))
	}
	return nil
}

// Decode reads a QOI image from r. A stream that ends early yields the
// partially filled image together with ErrTruncated.
func Decode(r io.Reader) (image.Image, error) {
	d, err := NewDecoder(byteReader(r))
	if err != nil {
		return nil, err
	}
	if d.Header.Pixels() > MaxPixels {
		return nil, fmt.Errorf("qoi: image too large: %dx%d", d.Header.Width, d.Header.Height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(d.Header.Width), int(d.Header.Height)))
	pix := img.Pix
	for len(pix) > 0 && d.Next() {
		c := d.cur
		pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
		pix = pix[4:]
	}
	if len(pix) > 0 {
		if d.err != nil {
			return img, d.err
		}
		return img, ErrTruncated
	}
	return img, nil
}

// DecodeConfig returns the dimensions of a QOI image without decoding its
// pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(byteReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

func byteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
