//go:build !tinygo && !cgo

package sim

import (
	"context"
	"errors"
)

func Run(_ context.Context, _ *Frame, _ string, _ int) error {
	return errors.New("sim: window mode requires cgo (build/run with CGO_ENABLED=1)")
}
