package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall-clock time so projections stay testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns the system clock.
func New() Clock {
	return systemClock{}
}

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(New),
)
