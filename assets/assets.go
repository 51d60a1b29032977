// Package assets holds the images shown by the slideshow, embedded into the
// program at build time.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/flavioheleno/st7789/slideshow"
)

//go:embed *.qoi *.qoi.zst
var files embed.FS

// Rotation lists the embedded files in display order.
var Rotation = []string{
	"qoi_logo-240x135.qoi",
	"cube-240x135.qoi.zst",
}

// Load returns the embedded rotation.
func Load() ([]slideshow.Asset, error) {
	return LoadFS(files, Rotation)
}

// LoadFS reads names from fsys in order. Files ending in ".zst" are
// zstd-compressed QOI streams; they are decompressed here, once, and listed
// without the suffix.
func LoadFS(fsys fs.FS, names []string) ([]slideshow.Asset, error) {
	var dec *zstd.Decoder
	defer func() {
		if dec != nil {
			dec.Close()
		}
	}()

	out := make([]slideshow.Asset, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}

		if base, ok := strings.CutSuffix(name, ".zst"); ok {
			if dec == nil {
				dec, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
				if err != nil {
					return nil, fmt.Errorf("assets: %w", err)
				}
			}
			data, err = dec.DecodeAll(data, nil)
			if err != nil {
				return nil, fmt.Errorf("assets: %s: %w", name, err)
			}
			name = base
		}

		out = append(out, slideshow.Asset{Name: name, Data: data})
	}
	return out, nil
}
