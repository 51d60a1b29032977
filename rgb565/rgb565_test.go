package rgb565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestPack(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{"black", 0, 0, 0, 0x0000},
		{"red", 255, 0, 0, 0xF800},
		{"green", 0, 255, 0, 0x07E0},
		{"blue", 0, 0, 255, 0x001F},
		{"white", 255, 255, 255, 0xFFFF},
		{"low bits dropped", 0x07, 0x03, 0x07, 0x0000},
		{"mixed", 0x12, 0x34, 0x56, 0x11AA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pack(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Pack(%d, %d, %d) = 0x%04X, want 0x%04X", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestPackMatchesMasks(t *testing.T) {
	// exhaustive over each component with the others at zero
	for v := 0; v < 256; v++ {
		c := uint8(v)
		if got, want := Pack(c, 0, 0), Color((uint16(c)&0xF8)<<8); got != want {
			t.Fatalf("red %d: 0x%04X, want 0x%04X", v, got, want)
		}
		if got, want := Pack(0, c, 0), Color((uint16(c)&0xFC)<<3); got != want {
			t.Fatalf("green %d: 0x%04X, want 0x%04X", v, got, want)
		}
		if got, want := Pack(0, 0, c), Color(uint16(c)>>3); got != want {
			t.Fatalf("blue %d: 0x%04X, want 0x%04X", v, got, want)
		}
	}
}

func TestPutBE(t *testing.T) {
	b := make([]byte, 4)
	PutBE(b[2:], FromNRGBA(color.NRGBA{255, 0, 0, 255}))
	if b[2] != 0xF8 || b[3] != 0x00 {
		t.Errorf("PutBE(red) = % X, want F8 00", b[2:])
	}
	if b[0] != 0 || b[1] != 0 {
		t.Errorf("PutBE wrote outside its slot: % X", b)
	}
	if got := BE(b[2:]); got != 0xF800 {
		t.Errorf("BE() = 0x%04X, want 0xF800", got)
	}
}

func TestFromNRGBAIgnoresAlpha(t *testing.T) {
	if got := FromNRGBA(color.NRGBA{255, 0, 0, 0}); got != 0xF800 {
		t.Errorf("FromNRGBA(transparent red) = 0x%04X, want 0xF800", got)
	}
}

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		name       string
		c          Color
		r, g, b, a uint32
	}{
		{"black", 0x0000, 0, 0, 0, 0xFFFF},
		{"red", 0xF800, 0xFFFF, 0, 0, 0xFFFF},
		{"green", 0x07E0, 0, 0xFFFF, 0, 0xFFFF},
		{"blue", 0x001F, 0, 0, 0xFFFF, 0xFFFF},
		{"white", 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if r != tt.r || g != tt.g || b != tt.b || a != tt.a {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, %x)",
					r, g, b, a, tt.r, tt.g, tt.b, tt.a)
			}
		})
	}
}

func TestModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Color
	}{
		{"passthrough", Color(0x1234), 0x1234},
		{"black", color.Black, 0x0000},
		{"white", color.White, 0xFFFF},
		{"gray rgba", color.RGBA{0x80, 0x80, 0x80, 0xFF}, 0x8410},
		{"nrgba", color.NRGBA{255, 0, 0, 255}, 0xF800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Model.Convert(tt.input).(Color); got != tt.want {
				t.Errorf("Model.Convert(%v) = 0x%04X, want 0x%04X", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewBigEndian(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantStride int
		wantPixLen int
	}{
		{"240x135", image.Rect(0, 0, 240, 135), 480, 64800},
		{"135x240", image.Rect(0, 0, 135, 240), 270, 64800},
		{"1x1", image.Rect(0, 0, 1, 1), 2, 2},
		{"offset rect", image.Rect(10, 20, 13, 22), 6, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewBigEndian(tt.rect)
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
		})
	}
}

func TestBigEndianByteOrder(t *testing.T) {
	img := NewBigEndian(image.Rect(0, 0, 2, 2))
	img.SetRGB565(1, 0, 0xF800)
	img.SetRGB565(0, 1, 0x001F)

	want := []byte{0x00, 0x00, 0xF8, 0x00, 0x00, 0x1F, 0x00, 0x00}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix = % X, want % X", img.Pix, want)
		}
	}
}

func TestBigEndianSetGet(t *testing.T) {
	img := NewBigEndian(image.Rect(0, 0, 3, 2))

	img.Set(0, 0, color.NRGBA{0, 255, 0, 255})
	if got := img.RGB565At(0, 0); got != 0x07E0 {
		t.Errorf("RGB565At(0, 0) = 0x%04X, want 0x07E0", got)
	}

	c, ok := img.At(0, 0).(Color)
	if !ok {
		t.Fatalf("At(0, 0) returned %T, want Color", img.At(0, 0))
	}
	if c != 0x07E0 {
		t.Errorf("At(0, 0) = 0x%04X, want 0x07E0", c)
	}
}

func TestBigEndianOutOfBounds(t *testing.T) {
	img := NewBigEndian(image.Rect(0, 0, 2, 2))

	img.SetRGB565(-1, 0, 0xFFFF)
	img.SetRGB565(0, 2, 0xFFFF)
	for i, b := range img.Pix {
		if b != 0 {
			t.Fatalf("out-of-bounds Set wrote Pix[%d] = 0x%02X", i, b)
		}
	}
	if got := img.RGB565At(2, 0); got != 0 {
		t.Errorf("RGB565At(2, 0) = 0x%04X, want 0", got)
	}
}

func TestBigEndianOffsetRect(t *testing.T) {
	img := NewBigEndian(image.Rect(100, 50, 102, 52))
	img.SetRGB565(101, 51, 0xABCD)

	if off := img.PixOffset(101, 51); off != 6 {
		t.Errorf("PixOffset(101, 51) = %d, want 6", off)
	}
	if img.Pix[6] != 0xAB || img.Pix[7] != 0xCD {
		t.Errorf("Pix[6:8] = % X, want AB CD", img.Pix[6:8])
	}
}

func TestBigEndianDraw(t *testing.T) {
	img := NewBigEndian(image.Rect(0, 0, 4, 4))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0xFF, 0xFF}), image.Point{}, draw.Src)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGB565At(x, y); got != 0x001F {
				t.Fatalf("RGB565At(%d, %d) = 0x%04X, want 0x001F", x, y, got)
			}
		}
	}
	if !img.Opaque() {
		t.Error("Opaque() = false")
	}
}
