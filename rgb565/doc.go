// Package rgb565 provides the 16-bit RGB565 pixel format used by ST7789 class LCD controllers.
//
// A pixel keeps the top 5 bits of red, the top 6 bits of green and the top 5 bits of blue;
// alpha is discarded. The controller expects each pixel as two bytes, high byte first:
//
//	Bits:   RRRRRGGG GGGBBBBB
//	Pixel:  (255, 0, 0)  -> 0xF800 -> bytes 0xF8 0x00
//	Pixel:  (0, 255, 0)  -> 0x07E0 -> bytes 0x07 0xE0
//	Pixel:  (0, 0, 255)  -> 0x001F -> bytes 0x00 0x1F
//
// This package provides:
//
// - Color: a packed RGB565 value
// - Model: a color model converting standard Go colors to Color
// - Pack and PutBE: the conversion from 8-bit components and its big-endian store
// - BigEndian: a row-major image.Image backed by the controller's wire format
//
// Example usage:
//
//	// Create a 240x135 framebuffer
//	img := rgb565.NewBigEndian(image.Rect(0, 0, 240, 135))
//
//	// Paint a pixel red
//	img.SetRGB565(10, 20, rgb565.Pack(255, 0, 0))
//
//	// img.Pix can be sent to the display as is
package rgb565
