package game

import (
	"log/slog"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/pixil98/go-street/internal/display"
	"github.com/pixil98/go-street/internal/protocol"
)

const DefaultProximityRadius = 8

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,16}$`)

// ValidName reports whether name is 1 to 16 letters or digits.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// World is the registry of rooms and connected players. It is the single
// source of truth for all shared state; rooms guard their own membership.
type World struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	players map[string]*Player

	messages  *display.Messages
	publisher Publisher
	radius    int
}

func NewWorld(opts ...WorldOpt) *World {
	w := &World{
		rooms:     make(map[string]*Room),
		players:   make(map[string]*Player),
		messages:  display.DefaultMessages(),
		publisher: DirectPublisher{},
		radius:    DefaultProximityRadius,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// CreateRoom registers a new room and builds its border walls.
func (w *World) CreateRoom(name string, width, height int, opts ...RoomOpt) (*Room, error) {
	r, err := newRoom(name, width, height, opts...)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.rooms[name]; exists {
		return nil, &DuplicateRoomError{Room: name}
	}
	w.rooms[name] = r

	return r, nil
}

// Room looks up a room by name.
func (w *World) Room(name string) (*Room, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r, ok := w.rooms[name]
	if !ok {
		return nil, &UnknownRoomError{Room: name}
	}
	return r, nil
}

// Rooms returns every room ordered by name.
func (w *World) Rooms() []*Room {
	w.mu.RLock()
	rooms := make([]*Room, 0, len(w.rooms))
	for _, r := range w.rooms {
		rooms = append(rooms, r)
	}
	w.mu.RUnlock()

	slices.SortFunc(rooms, func(a, b *Room) int {
		return strings.Compare(a.name, b.name)
	})
	return rooms
}

// ProximityRadius is the Manhattan distance chat travels.
func (w *World) ProximityRadius() int {
	return w.radius
}

func (w *World) Messages() *display.Messages {
	return w.messages
}

// Spawn places p on a random unoccupied interior cell of the named room and
// announces the arrival to the room.
func (w *World) Spawn(p *Player, roomName string) error {
	if !ValidName(p.Name()) {
		return ErrInvalidName
	}
	r, err := w.Room(roomName)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if _, exists := w.players[p.ID()]; exists {
		w.mu.Unlock()
		return nil
	}
	for _, other := range w.players {
		if strings.EqualFold(other.Name(), p.Name()) {
			w.mu.Unlock()
			return ErrNameTaken
		}
	}
	w.players[p.ID()] = p
	w.mu.Unlock()

	r.mu.Lock()
	free := r.freeCellsLocked()
	if len(free) == 0 {
		r.mu.Unlock()
		w.forget(p)
		return ErrRoomFull
	}
	c := free[rand.IntN(len(free))]
	r.placeLocked(p, c.x, c.y)
	r.mu.Unlock()

	slog.Info("player spawned", "player", p.Name(), "id", p.ID(), "room", r.name, "x", c.x, "y", c.y)

	w.Broadcast(r, display.Render(w.messages.Joined, display.MessageData{Name: p.Name(), Room: r.name}), p)
	return nil
}

// RemovePlayer takes p out of the world and tells its last room it left. It
// reports false if p was not connected.
func (w *World) RemovePlayer(p *Player) bool {
	if !w.forget(p) {
		return false
	}

	r, err := lockCurrentRoom(p)
	if err != nil {
		return true
	}
	r.removeLocked(p.ID())
	r.mu.Unlock()

	slog.Info("player removed", "player", p.Name(), "id", p.ID(), "room", r.name)

	w.Broadcast(r, display.Render(w.messages.Disconnected, display.MessageData{Name: p.Name(), Room: r.name}), p)
	return true
}

func (w *World) forget(p *Player) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.players[p.ID()]; !ok {
		return false
	}
	delete(w.players, p.ID())
	return true
}

// Rename changes p's display name. Names are unique among connected players.
func (w *World) Rename(p *Player, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, other := range w.players {
		if other != p && strings.EqualFold(other.Name(), name) {
			return ErrNameTaken
		}
	}
	p.setName(name)
	return nil
}

// NameInUse reports whether a connected player already uses name.
func (w *World) NameInUse(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, p := range w.players {
		if strings.EqualFold(p.Name(), name) {
			return true
		}
	}
	return false
}

// ForEachPlayer calls fn for each connected player while holding the lock.
func (w *World) ForEachPlayer(fn func(*Player)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.players {
		fn(p)
	}
}

// PlayerCount returns the number of connected players.
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

// Census counts players per room. Rooms without players are omitted.
func (w *World) Census() map[string]int {
	counts := make(map[string]int)
	for _, r := range w.Rooms() {
		if n := len(r.Players(nil)); n > 0 {
			counts[r.name] = n
		}
	}
	return counts
}

// Observe returns a consistent view of p's current room together with p's own
// state as recorded in that view.
func (w *World) Observe(p *Player) (RoomSnapshot, protocol.EntityFields, error) {
	r, err := rlockCurrentRoom(p)
	if err != nil {
		return RoomSnapshot{}, protocol.EntityFields{}, err
	}
	defer r.mu.RUnlock()
	return r.snapshotLocked(), p.Fields(), nil
}

// lockCurrentRoom write-locks the room p is in. The caller must unlock it.
func lockCurrentRoom(p *Player) (*Room, error) {
	for {
		r := p.Room()
		if r == nil {
			return nil, ErrNotPlaced
		}
		r.mu.Lock()
		if p.Room() == r {
			return r, nil
		}
		r.mu.Unlock()
	}
}

// rlockCurrentRoom read-locks the room p is in. The caller must unlock it.
func rlockCurrentRoom(p *Player) (*Room, error) {
	for {
		r := p.Room()
		if r == nil {
			return nil, ErrNotPlaced
		}
		r.mu.RLock()
		if p.Room() == r {
			return r, nil
		}
		r.mu.RUnlock()
	}
}

// lockPair write-locks two rooms in name order. The caller must unlock both
// with unlockPair.
func lockPair(a, b *Room) {
	if a == b {
		a.mu.Lock()
		return
	}
	if a.name > b.name {
		a, b = b, a
	}
	a.mu.Lock()
	b.mu.Lock()
}

func unlockPair(a, b *Room) {
	a.mu.Unlock()
	if a != b {
		b.mu.Unlock()
	}
}
