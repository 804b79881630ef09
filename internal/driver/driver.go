package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTickLength is how often the census is taken when no interval is
// configured.
const DefaultTickLength = 2 * time.Second

// Manager is anything with periodic upkeep. The player manager implements it
// to log who is online in which room.
type Manager interface {
	Tick(context.Context) error
}

// Driver runs the census: every tick it calls each manager in order. A
// failing manager stops the driver and the error is returned from Start.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tickLength <= 0 {
		d.tickLength = DefaultTickLength
	}
	return d
}

func (d *Driver) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "census driver started", "interval", d.tickLength)

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := d.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick runs one round over the managers.
func (d *Driver) Tick(ctx context.Context) error {
	for i, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return fmt.Errorf("manager %d tick: %w", i, err)
		}
	}
	return nil
}
