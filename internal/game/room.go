package game

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pixil98/go-street/internal/protocol"
)

const (
	MinRoomSize = 3

	WallColor = "GREY"
	WallGlyph = "#"
)

type cell struct {
	x, y int
}

// Room is a named rectangular grid. All mutation of its membership happens
// under mu; at most one entity occupies any cell.
type Room struct {
	name      string
	width     int
	height    int
	whitelist map[string]struct{}

	mu       sync.RWMutex
	entities map[string]Entity
	cells    map[cell]Entity
}

type RoomOpt func(*Room)

// WithWhitelist restricts entry through entrances to the named players.
func WithWhitelist(names ...string) RoomOpt {
	return func(r *Room) {
		r.whitelist = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.whitelist[n] = struct{}{}
		}
	}
}

func newRoom(name string, width, height int, opts ...RoomOpt) (*Room, error) {
	if width < MinRoomSize || height < MinRoomSize {
		return nil, fmt.Errorf("room %q: dimensions %dx%d below minimum %d", name, width, height, MinRoomSize)
	}
	if name == "" || strings.ContainsAny(name, ":|") {
		return nil, fmt.Errorf("room name %q is empty or contains a reserved character", name)
	}

	r := &Room{
		name:     name,
		width:    width,
		height:   height,
		entities: make(map[string]Entity),
		cells:    make(map[cell]Entity),
	}
	for _, opt := range opts {
		opt(r)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if r.IsBorder(x, y) {
				r.placeLocked(NewStructure(fmt.Sprintf("border_%s_%d,%d", name, x, y), WallColor, WallGlyph, x, y), x, y)
			}
		}
	}

	return r, nil
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Width() int {
	return r.width
}

func (r *Room) Height() int {
	return r.height
}

// InBounds reports whether (x, y) lies on the grid.
func (r *Room) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}

// IsBorder reports whether (x, y) is on the outer ring of the grid.
func (r *Room) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == r.width-1 || y == r.height-1
}

// HasWhitelist reports whether entry to the room is restricted.
func (r *Room) HasWhitelist() bool {
	return r.whitelist != nil
}

// Allows reports whether a player with the given name may enter.
func (r *Room) Allows(name string) bool {
	if r.whitelist == nil {
		return true
	}
	_, ok := r.whitelist[name]
	return ok
}

// EntityAt returns the entity at (x, y), or nil if the cell is empty.
func (r *Room) EntityAt(x, y int) Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cells[cell{x, y}]
}

// Entity returns the member with the given id.
func (r *Room) Entity(id string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[id]
	return e, ok
}

// Place puts e at its current coordinates. Whatever occupied that cell is
// removed from the room and returned. An entity already in another room is
// taken out of it first.
func (r *Room) Place(e Entity) Entity {
	for {
		src := e.Room()
		if src == nil {
			src = r
		}

		lockPair(src, r)
		cur := e.Room()
		if cur != nil && cur != src {
			unlockPair(src, r)
			continue
		}

		if cur != nil && cur != r {
			src.detachLocked(e.ID())
		}
		x, y := e.Position()
		evicted := r.placeLocked(e, x, y)
		unlockPair(src, r)
		return evicted
	}
}

// Remove takes the entity out of the room. It reports false if the id was not
// a member.
func (r *Room) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(id)
}

// Players returns the players in the room accepted by filter. A nil filter
// accepts every player.
func (r *Room) Players(filter func(*Player) bool) []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var players []*Player
	for _, e := range r.entities {
		p, ok := e.(*Player)
		if !ok {
			continue
		}
		if filter == nil || filter(p) {
			players = append(players, p)
		}
	}
	return players
}

// Entities returns the members of the given kind.
func (r *Room) Entities(kind Kind) []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entity
	for _, e := range r.entities {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entities in the room.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// RoomSnapshot is a consistent copy of a room's state.
type RoomSnapshot struct {
	Name     string
	Width    int
	Height   int
	Entities []protocol.EntityFields
}

// Frame renders the snapshot as a MAP frame.
func (s RoomSnapshot) Frame() protocol.Frame {
	return protocol.Map(s.Width, s.Height, s.Entities)
}

// Snapshot copies the room's current state.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomSnapshot {
	fields := make([]protocol.EntityFields, 0, len(r.entities))
	for _, e := range r.entities {
		fields = append(fields, e.Fields())
	}
	slices.SortFunc(fields, func(a, b protocol.EntityFields) int {
		return strings.Compare(a.ID, b.ID)
	})

	return RoomSnapshot{
		Name:     r.name,
		Width:    r.width,
		Height:   r.height,
		Entities: fields,
	}
}

func (r *Room) freeCellsLocked() []cell {
	var free []cell
	for y := 1; y < r.height-1; y++ {
		for x := 1; x < r.width-1; x++ {
			if _, ok := r.cells[cell{x, y}]; !ok {
				free = append(free, cell{x, y})
			}
		}
	}
	return free
}

func (r *Room) placeLocked(e Entity, x, y int) Entity {
	target := cell{x, y}

	evicted := r.cells[target]
	if evicted != nil && evicted.ID() == e.ID() {
		evicted = nil
	}
	if evicted != nil {
		r.removeLocked(evicted.ID())
	}

	// Moving within the room frees the previous cell.
	if _, ok := r.entities[e.ID()]; ok {
		ox, oy := e.Position()
		if r.cells[cell{ox, oy}] == e {
			delete(r.cells, cell{ox, oy})
		}
	}

	r.entities[e.ID()] = e
	r.cells[target] = e
	e.placement().set(r, x, y)

	return evicted
}

func (r *Room) removeLocked(id string) bool {
	e := r.detachLocked(id)
	if e == nil {
		return false
	}
	x, y := e.Position()
	e.placement().set(nil, x, y)
	return true
}

// detachLocked drops id from the room's maps but leaves the entity's own
// placement untouched, for callers that immediately place it elsewhere.
func (r *Room) detachLocked(id string) Entity {
	e, ok := r.entities[id]
	if !ok {
		return nil
	}

	x, y := e.Position()
	if r.cells[cell{x, y}] == e {
		delete(r.cells, cell{x, y})
	}
	delete(r.entities, id)

	return e
}
