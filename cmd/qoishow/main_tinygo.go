//go:build tinygo

package main

import (
	"context"
	"image/color"
	"log"
	"machine"
	"os"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7789"

	"github.com/flavioheleno/st7789/assets"
	"github.com/flavioheleno/st7789/slideshow"
)

// ESP32 wiring of the 1.14" panel
const (
	pinSCK = machine.GPIO18
	pinSDO = machine.GPIO19
	pinCS  = machine.GPIO5
	pinDC  = machine.GPIO16
	pinRST = machine.GPIO23
	pinBL  = machine.GPIO4
)

// panel adapts the TinyGo driver to slideshow.Sink.
type panel struct {
	d *st7789.Device
}

func (p panel) DrawImage(pix []byte, stride int) error {
	h := len(pix) / (2 * stride)
	return p.d.DrawRGBBitmap8(0, 0, pix, int16(stride), int16(h))
}

func main() {
	machine.SPI2.Configure(machine.SPIConfig{
		Frequency: 40_000_000,
		SCK:       pinSCK,
		SDO:       pinSDO,
		Mode:      0,
	})

	display := st7789.New(machine.SPI2, pinRST, pinDC, pinCS, pinBL)
	display.Configure(st7789.Config{
		Width:        135,
		Height:       240,
		Rotation:     drivers.Rotation90,
		RowOffset:    40,
		ColumnOffset: 52,
	})
	display.FillScreen(color.RGBA{R: 0xff, A: 0xff})

	list, err := assets.Load()
	if err != nil {
		fail(err)
	}

	logger := log.New(os.Stdout, "", 0)
	s := &slideshow.Scheduler{
		Pump:   slideshow.NewPump(240, 135, logger),
		Sink:   panel{d: &display},
		Assets: list,
		Logger: logger,
	}
	fail(s.Run(context.Background()))
}

// fail reports err on the serial console forever.
func fail(err error) {
	for {
		println("error:", err.Error())
		time.Sleep(5 * time.Second)
	}
}
