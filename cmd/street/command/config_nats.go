package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-street/internal/messaging"
)

// NatsConfig controls the embedded broker. When disabled, chat and system
// messages are written straight to each player's connection.
type NatsConfig struct {
	Enabled      bool   `json:"enabled"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := c.startTimeout(); err != nil {
		el.Add(err)
	}
	// -1 asks the broker for a random port
	if c.Port < -1 || c.Port > 65535 {
		el.Add(fmt.Errorf("nats: port %d out of range", c.Port))
	}

	return el.Err()
}

// startTimeout returns zero when unset, leaving the server default in place.
func (c *NatsConfig) startTimeout() (time.Duration, error) {
	if c.StartTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.StartTimeout)
	if err != nil {
		return 0, fmt.Errorf("nats: parsing start_timeout: %w", err)
	}
	return d, nil
}

// buildNatsServer creates the broker that carries player.<id> subjects.
func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	timeout, err := c.startTimeout()
	if err != nil {
		return nil, err
	}

	var opts []messaging.NatsServerOpt
	if timeout > 0 {
		opts = append(opts, messaging.WithStartTimeout(timeout))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	return messaging.NewNatsServer(opts...)
}
