package game

import (
	"errors"
	"fmt"
)

var (
	ErrRoomFull     = errors.New("no free cell in room")
	ErrNotPlaced    = errors.New("player is not in a room")
	ErrNoConnection = errors.New("player has no connection")
	ErrNameTaken    = errors.New("name is already taken")
	ErrInvalidName  = errors.New("name must be 1-16 letters or digits")
)

// DuplicateRoomError is returned when a room name is registered twice.
type DuplicateRoomError struct {
	Room string
}

func (e *DuplicateRoomError) Error() string {
	return fmt.Sprintf("room %q already exists", e.Room)
}

// UnknownRoomError is returned when a room name is not registered.
type UnknownRoomError struct {
	Room string
}

func (e *UnknownRoomError) Error() string {
	return fmt.Sprintf("room %q does not exist", e.Room)
}

// AccessDeniedError is returned when a room's whitelist excludes a player.
type AccessDeniedError struct {
	Room   string
	Player string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s is not allowed in room %q", e.Player, e.Room)
}
