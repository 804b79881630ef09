package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingManager struct {
	ticks atomic.Int32
	err   error
}

func (m *countingManager) Tick(context.Context) error {
	m.ticks.Add(1)
	return m.err
}

func TestDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		errAt    int
		expErr   bool
		expTicks []int32
	}{
		"all succeed":  {errAt: -1, expTicks: []int32{1, 1, 1}},
		"first fails":  {errAt: 0, expErr: true, expTicks: []int32{1, 0, 0}},
		"middle fails": {errAt: 1, expErr: true, expTicks: []int32{1, 1, 0}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ms := []*countingManager{{}, {}, {}}
			managers := make([]Manager, len(ms))
			for i, m := range ms {
				if i == tt.errAt {
					m.err = errors.New("boom")
				}
				managers[i] = m
			}

			err := NewDriver(managers).Tick(context.Background())
			testutil.AssertEqual(t, "error", err != nil, tt.expErr)
			for i, m := range ms {
				testutil.AssertEqual(t, "ticks", m.ticks.Load(), tt.expTicks[i])
			}
		})
	}
}

func TestDriver_Start(t *testing.T) {
	m := &countingManager{}
	d := NewDriver([]Manager{m}, WithTickLength(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Start(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for m.ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ticks.Load() < 3 {
		t.Errorf("expected at least 3 ticks, got %d", m.ticks.Load())
	}
}

func TestDriver_StartStopsOnError(t *testing.T) {
	m := &countingManager{err: errors.New("boom")}
	d := NewDriver([]Manager{m}, WithTickLength(time.Millisecond))

	select {
	case err := <-func() chan error {
		c := make(chan error, 1)
		go func() { c <- d.Start(context.Background()) }()
		return c
	}():
		testutil.AssertErrorContains(t, err, "boom")
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestNewDriver_TickLength(t *testing.T) {
	tests := map[string]struct {
		length time.Duration
		exp    time.Duration
	}{
		"custom":   {length: 5 * time.Second, exp: 5 * time.Second},
		"zero":     {length: 0, exp: DefaultTickLength},
		"negative": {length: -time.Second, exp: DefaultTickLength},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDriver(nil, WithTickLength(tt.length))
			testutil.AssertEqual(t, "tick length", d.tickLength, tt.exp)
		})
	}
}

func TestDriver_TickNamesFailingManager(t *testing.T) {
	err := NewDriver([]Manager{&countingManager{}, &countingManager{err: errors.New("boom")}}).Tick(context.Background())
	testutil.AssertErrorContains(t, err, "manager 1 tick")
}
