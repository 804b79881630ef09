package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/zones"
)

const (
	defaultStreetLength = 3
	defaultRoomWidth    = 32
	defaultRoomHeight   = 16
)

type WorldConfig struct {
	RoomsPath    string `json:"rooms_path,omitempty"`
	SpawnRoom    string `json:"spawn_room"`
	StreetLength int    `json:"street_length"`
	RoomWidth    int    `json:"room_width"`
	RoomHeight   int    `json:"room_height"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.RoomsPath != "" {
		if _, err := os.Stat(c.RoomsPath); err != nil {
			el.Add(fmt.Errorf("world: invalid rooms_path %q: %w", c.RoomsPath, err))
		}
		return el.Err()
	}

	if c.StreetLength < 0 {
		el.Add(fmt.Errorf("world: street_length cannot be negative"))
	}
	if c.RoomWidth != 0 && c.RoomWidth < game.MinRoomSize {
		el.Add(fmt.Errorf("world: room_width must be at least %d", game.MinRoomSize))
	}
	if c.RoomHeight != 0 && c.RoomHeight < game.MinRoomSize {
		el.Add(fmt.Errorf("world: room_height must be at least %d", game.MinRoomSize))
	}

	return el.Err()
}

func (c *WorldConfig) spawnRoom() string {
	if c.SpawnRoom == "" {
		return zones.SpawnRoom
	}
	return c.SpawnRoom
}

// roomDefs loads the configured rooms, or generates the street when no rooms
// path is set.
func (c *WorldConfig) roomDefs() (map[string]*zones.RoomDef, error) {
	if c.RoomsPath != "" {
		return zones.LoadRooms(c.RoomsPath)
	}

	length := c.StreetLength
	if length == 0 {
		length = defaultStreetLength
	}
	return zones.Street(length, orDefault(c.RoomWidth, defaultRoomWidth), orDefault(c.RoomHeight, defaultRoomHeight)), nil
}

// buildWorld creates the world and checks the spawn room exists.
func (c *WorldConfig) buildWorld(opts ...game.WorldOpt) (*game.World, error) {
	defs, err := c.roomDefs()
	if err != nil {
		return nil, err
	}

	w := game.NewWorld(opts...)
	if err := zones.Build(w, defs); err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	if _, err := w.Room(c.spawnRoom()); err != nil {
		return nil, fmt.Errorf("spawn room: %w", err)
	}
	return w, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
