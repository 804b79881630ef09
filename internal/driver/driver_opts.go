package driver

import "time"

type DriverOpt func(*Driver)

// WithTickLength sets the census interval. Non-positive lengths keep the
// default.
func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}
