// Package st7789 controls an ST7789 RGB565 LCD via SPI.
//
// The ST7789 is a 262K-color TFT controller with 240×320 pixels of internal RAM.
// Panels smaller than that, such as the 1.14" 240×135 module found on the
// Pimoroni Pico Display and the TTGO T-Display, show a window of the RAM given by
// a column and row offset. This driver implements the display.Drawer interface
// from periph.io.
//
// # Display Characteristics
//
// - 16-bit RGB565 color, sent big-endian (high byte first)
// - Up to 240×320 pixels, any of four rotations
// - Color inversion (most IPS panels need it on)
// - Vertical scroll offset along the 320-line axis
//
// # Hardware Connection
//
// Connect the ST7789 display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select
//	RES         → Optional: GPIO for hardware reset
//	BL          → Optional: GPIO for the backlight
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"image"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"github.com/flavioheleno/st7789"
//		"github.com/flavioheleno/st7789/rgb565"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		dcPin := gpioreg.ByName("GPIO25")
//
//		opts := st7789.Pico1
//		dev, _ := st7789.NewSPI(spiBus, dcPin, &opts)
//		defer dev.Halt()
//
//		img := rgb565.NewBigEndian(dev.Bounds())
//		for x := 0; x < 240; x++ {
//			for y := 0; y < 135; y++ {
//				img.SetRGB565(x, y, rgb565.Pack(uint8(x), 0, uint8(y)))
//			}
//		}
//		dev.Draw(dev.Bounds(), img, image.Point{})
//	}
//
// # Drawing Modes
//
// DrawImage takes big-endian RGB565 bytes and a stride in pixels, and paints them
// at the top-left corner. It is the cheapest way to show a decoded framebuffer:
//
//	dev.DrawImage(pix, 240)
//
// Draw accepts any image.Image. An *rgb565.BigEndian covering the whole display is
// sent as is; anything else is converted into a scratch image first, and only the
// destination rectangle is transferred.
//
// Transfers larger than the SPI port's maximum (4096 bytes on Linux spidev) are
// split automatically.
//
// # Datasheet
//
// https://www.rhydolabz.com/documents/33/ST7789.pdf
package st7789
