package game

import (
	"sync"

	"github.com/pixil98/go-street/internal/protocol"
)

// Kind identifies which of the closed set of entity variants a value is.
type Kind int

const (
	KindStructure Kind = iota
	KindEntrance
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindEntrance:
		return "entrance"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Entity is anything placed on a room grid. The set of implementations is
// closed: *Structure, *Entrance and *Player.
type Entity interface {
	ID() string
	Kind() Kind
	Color() string
	Glyph() string
	Position() (x, y int)
	Room() *Room
	Fields() protocol.EntityFields

	placement() *placement
}

// placement is an entity's location. It is only written while the owning
// room's lock is held, so holding that room lock (in either mode) is enough to
// read it consistently for entities in that room.
type placement struct {
	mu   sync.RWMutex
	x, y int
	room *Room
}

func (p *placement) set(room *Room, x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.room = room
	p.x = x
	p.y = y
}

type entity struct {
	id    string
	color string
	glyph string
	pos   placement
}

func newEntity(id, color, glyph string, x, y int) entity {
	return entity{
		id:    id,
		color: color,
		glyph: glyph,
		pos:   placement{x: x, y: y},
	}
}

func (e *entity) ID() string {
	return e.id
}

func (e *entity) Color() string {
	return e.color
}

func (e *entity) Glyph() string {
	return e.glyph
}

func (e *entity) Position() (int, int) {
	e.pos.mu.RLock()
	defer e.pos.mu.RUnlock()
	return e.pos.x, e.pos.y
}

// Room returns the room the entity is placed in, or nil when it is not placed.
func (e *entity) Room() *Room {
	e.pos.mu.RLock()
	defer e.pos.mu.RUnlock()
	return e.pos.room
}

func (e *entity) Fields() protocol.EntityFields {
	e.pos.mu.RLock()
	defer e.pos.mu.RUnlock()

	roomName := ""
	if e.pos.room != nil {
		roomName = e.pos.room.name
	}
	return protocol.EntityFields{
		ID:    e.id,
		Color: e.color,
		X:     e.pos.x,
		Y:     e.pos.y,
		Room:  roomName,
		Glyph: e.glyph,
	}
}

func (e *entity) placement() *placement {
	return &e.pos
}

// Structure blocks movement and does nothing else.
type Structure struct {
	entity
}

func NewStructure(id, color, glyph string, x, y int) *Structure {
	return &Structure{entity: newEntity(id, color, glyph, x, y)}
}

func (s *Structure) Kind() Kind {
	return KindStructure
}

// Destination is where an Entrance leads.
type Destination struct {
	Room string
	X    int
	Y    int
}

// Entrance cannot be walked onto; walking into it moves the player to its
// destination instead.
type Entrance struct {
	entity
	dest Destination
}

func NewEntrance(id, color, glyph string, x, y int, dest Destination) *Entrance {
	return &Entrance{
		entity: newEntity(id, color, glyph, x, y),
		dest:   dest,
	}
}

func (e *Entrance) Kind() Kind {
	return KindEntrance
}

func (e *Entrance) Destination() Destination {
	return e.dest
}
