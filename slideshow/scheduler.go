package slideshow

import (
	"context"
	"log"
	"time"
)

// DefaultInterval is the paint-to-paint period of a Scheduler.
const DefaultInterval = 5 * time.Second

// Clock is the time source of a Scheduler.
type Clock interface {
	Now() time.Time
	// SleepUntil blocks until t or until ctx is done.
	SleepUntil(ctx context.Context, t time.Time) error
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) SleepUntil(ctx context.Context, t time.Time) error {
	timer := time.NewTimer(time.Until(t))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Scheduler cycles through Assets forever, painting one every Interval.
//
// Each image is decoded before waiting for its deadline so the cadence does
// not depend on decode time. A decode that takes longer than Interval is
// painted right away; late frames do not pile up.
type Scheduler struct {
	Pump     *Pump
	Sink     Sink
	Assets   []Asset
	Interval time.Duration // DefaultInterval if zero
	Clock    Clock         // wall clock if nil
	Logger   *log.Logger   // discarded if nil
}

// Run shows the assets in order, wrapping around at the end. It only returns
// on a fatal error or when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.Assets) == 0 {
		return ErrNoAssets
	}
	for i := 0; ; i = (i + 1) % len(s.Assets) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Show(ctx, s.Assets[i]); err != nil {
			return err
		}
	}
}

// Show decodes a, waits one interval from the moment it was called, then
// paints it.
func (s *Scheduler) Show(ctx context.Context, a Asset) error {
	clock, logger := s.clock(), s.logger()
	next := clock.Now().Add(s.interval())

	f, err := s.Pump.Fill(a)
	if err != nil {
		return err
	}

	if now := clock.Now(); now.Before(next) {
		if err := clock.SleepUntil(ctx, next); err != nil {
			return err
		}
	} else {
		logger.Printf("%s: decode overran interval by %v", a.Name, now.Sub(next))
	}

	logger.Printf("displaying: %s (%dx%d)", a.Name, f.Header.Width, f.Header.Height)
	return f.Draw(s.Sink)
}

func (s *Scheduler) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

func (s *Scheduler) clock() Clock {
	if s.Clock == nil {
		return wallClock{}
	}
	return s.Clock
}

func (s *Scheduler) logger() *log.Logger {
	if s.Logger == nil {
		return discard
	}
	return s.Logger
}
