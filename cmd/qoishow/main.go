//go:build !tinygo

// Command qoishow cycles through the embedded QOI images on an ST7789 panel.
//
// Hardware Setup:
//
// Connect the 240x135 panel via SPI:
//
//	Display    Raspberry Pi
//	GND        GND
//	VCC        3.3V
//	SCL/CLK    GPIO11 (SPI0 CLK)
//	SDA/MOSI   GPIO10 (SPI0 MOSI)
//	DC         GPIO25 (configurable)
//	RST        GPIO24 (configurable)
//	BL         GPIO18 (configurable)
//	CS         GPIO8 (SPI0 CE0)
//
// Without hardware, "qoishow sim" shows the same slideshow in a window.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/flavioheleno/st7789"
	"github.com/flavioheleno/st7789/assets"
	"github.com/flavioheleno/st7789/qoi"
	"github.com/flavioheleno/st7789/rgb565"
	"github.com/flavioheleno/st7789/sim"
	"github.com/flavioheleno/st7789/slideshow"
)

const (
	width  = 240
	height = 135
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "qoishow"
	app.Usage = "QOI slideshow for ST7789 displays"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.DurationFlag{
			Name:    "interval",
			EnvVars: []string{"QOISHOW_INTERVAL"},
			Value:   slideshow.DefaultInterval,
			Usage:   "time between images",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "Show the slideshow on an SPI panel",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "spi",
					EnvVars: []string{"QOISHOW_SPI"},
					Usage:   "SPI port name (empty for default)",
				},
				&cli.StringFlag{
					Name:    "dc",
					EnvVars: []string{"QOISHOW_DC"},
					Value:   "GPIO25",
					Usage:   "Data/Command pin name",
				},
				&cli.StringFlag{
					Name:    "rst",
					EnvVars: []string{"QOISHOW_RST"},
					Value:   "GPIO24",
					Usage:   "reset pin name (empty if not wired)",
				},
				&cli.StringFlag{
					Name:    "bl",
					EnvVars: []string{"QOISHOW_BL"},
					Value:   "GPIO18",
					Usage:   "backlight pin name (empty if not wired)",
				},
				&cli.StringFlag{
					Name:    "hz",
					EnvVars: []string{"QOISHOW_HZ"},
					Value:   "40MHz",
					Usage:   "SPI clock",
				},
			},
			Action: runPanel,
		},
		{
			Name:   "sim",
			Usage:  "Show the slideshow in a desktop window",
			Flags:  []cli.Flag{&cli.IntFlag{Name: "scale", Value: 3, Usage: "window zoom factor"}},
			Action: runSim,
		},
		{
			Name:   "info",
			Usage:  "List the embedded images",
			Action: info,
		},
		{
			Name:      "export",
			Usage:     "Write the embedded images as PNG files",
			ArgsUsage: "DIRECTORY",
			Action:    export,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", log.LstdFlags)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", name)
	}
	return p, nil
}

func runPanel(c *cli.Context) error {
	logger := newLogger(c)

	var freq physic.Frequency
	if err := freq.Set(c.String("hz")); err != nil {
		return cli.NewExitError(err, 1)
	}

	if _, err := host.Init(); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to initialize periph.io: %w", err), 1)
	}

	port, err := spireg.Open(c.String("spi"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to open SPI port: %w", err), 1)
	}
	defer port.Close()

	dc, err := pin(c.String("dc"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if dc == nil {
		return cli.NewExitError("a DC pin is required", 1)
	}
	rst, err := pin(c.String("rst"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	bl, err := pin(c.String("bl"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	opts := st7789.Pico1
	opts.Freq = freq
	if rst != nil {
		opts.RST = rst
	}
	if bl != nil {
		opts.BL = bl
	}

	dev, err := st7789.NewSPI(port, dc, &opts)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer dev.Halt()
	logger.Printf("display initialized: %v", dev)

	if err := dev.Fill(rgb565.Pack(0xff, 0, 0)); err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return slideshowRun(ctx, c, dev, logger)
}

func runSim(c *cli.Context) error {
	logger := newLogger(c)
	frame := sim.NewFrame(width, height)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- slideshowRun(ctx, c, frame, logger)
		stop()
	}()

	if err := sim.Run(ctx, frame, "qoishow", c.Int("scale")); err != nil {
		return cli.NewExitError(err, 1)
	}
	stop()
	return <-done
}

func slideshowRun(ctx context.Context, c *cli.Context, sink slideshow.Sink, logger *log.Logger) error {
	list, err := assets.Load()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	s := &slideshow.Scheduler{
		Pump:     slideshow.NewPump(width, height, logger),
		Sink:     sink,
		Assets:   list,
		Interval: c.Duration("interval"),
		Logger:   logger,
	}
	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func info(c *cli.Context) error {
	list, err := assets.Load()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, a := range list {
		d, err := qoi.NewDecoder(bytes.NewReader(a.Data))
		if err != nil {
			return cli.NewExitError(fmt.Errorf("%s: %w", a.Name, err), 1)
		}
		n := 0
		for d.Next() {
			n++
		}
		status := "ok"
		if err := d.Err(); err != nil {
			status = err.Error()
		} else if err := d.Trailer(); err != nil {
			status = err.Error()
		}
		fmt.Printf("%s: %dx%d, %d channels, %v, %d bytes, %d pixels decoded, %s\n",
			a.Name, d.Header.Width, d.Header.Height, d.Header.Channels, d.Header.Colorspace,
			len(a.Data), n, status)
	}
	return nil
}

func export(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	dir := c.Args().First()
	logger := newLogger(c)

	list, err := assets.Load()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, a := range list {
		img, err := qoi.Decode(bytes.NewReader(a.Data))
		if err != nil {
			return cli.NewExitError(fmt.Errorf("%s: %w", a.Name, err), 1)
		}

		name := filepath.Join(dir, strings.TrimSuffix(a.Name, filepath.Ext(a.Name))+".png")
		f, err := os.Create(name)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return cli.NewExitError(err, 1)
		}
		if err := f.Close(); err != nil {
			return cli.NewExitError(err, 1)
		}
		logger.Printf("wrote %s", name)
	}
	return nil
}
