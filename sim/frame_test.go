package sim

import (
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioheleno/st7789/rgb565"
	"github.com/flavioheleno/st7789/slideshow"
)

var _ slideshow.Sink = (*Frame)(nil)

func TestNewFrameIsBlack(t *testing.T) {
	f := NewFrame(3, 2)
	assert.Equal(t, 3, f.Bounds().Dx())
	assert.Equal(t, 2, f.Bounds().Dy())
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, f.rgba.RGBAAt(2, 1))
}

func TestDrawImage(t *testing.T) {
	f := NewFrame(4, 2)

	pix := make([]byte, 2*2*2)
	rgb565.PutBE(pix[0:], rgb565.Pack(255, 0, 0))
	rgb565.PutBE(pix[2:], rgb565.Pack(0, 255, 0))
	rgb565.PutBE(pix[4:], rgb565.Pack(0, 0, 255))
	rgb565.PutBE(pix[6:], rgb565.Pack(255, 255, 255))
	require.NoError(t, f.DrawImage(pix, 2))

	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, f.rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, f.rgba.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{0, 0, 0xff, 0xff}, f.rgba.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, f.rgba.RGBAAt(1, 1))
	// untouched
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, f.rgba.RGBAAt(3, 1))
}

func TestDrawImageInvalid(t *testing.T) {
	f := NewFrame(2, 2)

	tests := []struct {
		name   string
		size   int
		stride int
	}{
		{"zero stride", 4, 0},
		{"empty", 0, 2},
		{"partial row", 6, 2},
		{"too wide", 6, 3},
		{"too tall", 12, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, f.DrawImage(make([]byte, tt.size), tt.stride))
		})
	}
}

func TestSnapshot(t *testing.T) {
	f := NewFrame(1, 1)
	dst := make([]byte, 4)

	seq := f.Snapshot(dst, ^uint64(0))
	assert.Equal(t, []byte{0, 0, 0, 0xff}, dst)

	require.NoError(t, f.DrawImage([]byte{0xf8, 0x00}, 1))

	// unchanged sequence leaves dst alone
	stale := []byte{1, 2, 3, 4}
	assert.Equal(t, uint64(1), f.Snapshot(stale, 1))
	assert.Equal(t, []byte{1, 2, 3, 4}, stale)

	next := f.Snapshot(dst, seq)
	assert.NotEqual(t, seq, next)
	assert.Equal(t, []byte{0xff, 0, 0, 0xff}, dst)
}

func TestConcurrentDraw(t *testing.T) {
	f := NewFrame(2, 1)
	dst := make([]byte, 8)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = f.DrawImage([]byte{0xf8, 0x00, 0x00, 0x1f}, 2)
		}
	}()
	go func() {
		defer wg.Done()
		var seq uint64
		for i := 0; i < 100; i++ {
			seq = f.Snapshot(dst, seq)
		}
	}()
	wg.Wait()
	assert.Equal(t, uint64(100), f.seq)
}
