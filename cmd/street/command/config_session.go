package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-street/internal/display"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/player"
)

const maxNamePrefix = 10

type SessionConfig struct {
	RefreshRate     string `json:"refresh_rate"`
	ProximityRadius int    `json:"proximity_radius"`
	MaxChatLength   uint   `json:"max_chat_length"`
	NamePrefix      string `json:"name_prefix"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.RefreshRate != "" {
		d, err := time.ParseDuration(c.RefreshRate)
		if err != nil {
			el.Add(fmt.Errorf("session: parsing refresh_rate: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("session: refresh_rate must be positive"))
		}
	}
	if c.ProximityRadius < 0 {
		el.Add(fmt.Errorf("session: proximity_radius cannot be negative"))
	}
	// generated names append a counter and must stay valid player names
	if c.NamePrefix != "" && (len(c.NamePrefix) > maxNamePrefix || !game.ValidName(c.NamePrefix)) {
		el.Add(fmt.Errorf("session: name_prefix must be 1 to %d letters or digits", maxNamePrefix))
	}

	return el.Err()
}

func (c *SessionConfig) refreshRate() time.Duration {
	d, err := time.ParseDuration(c.RefreshRate)
	if err != nil || d <= 0 {
		return player.DefaultRefreshRate
	}
	return d
}

func (c *SessionConfig) proximityRadius() int {
	if c.ProximityRadius == 0 {
		return game.DefaultProximityRadius
	}
	return c.ProximityRadius
}

func (c *SessionConfig) maxChatLength() uint {
	if c.MaxChatLength == 0 {
		return display.DefaultChatLength
	}
	return c.MaxChatLength
}

func (c *SessionConfig) namePrefix() string {
	if c.NamePrefix == "" {
		return player.DefaultNamePrefix
	}
	return c.NamePrefix
}
