package game

import (
	"errors"
	"log/slog"

	"github.com/pixil98/go-street/internal/display"
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ParseDirection maps a movement key (w, a, s, d) to a direction.
func ParseDirection(key string) (Direction, bool) {
	switch key {
	case "w":
		return Up, true
	case "s":
		return Down, true
	case "a":
		return Left, true
	case "d":
		return Right, true
	default:
		return 0, false
	}
}

func (d Direction) offset() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Outcome describes what a move did.
type Outcome int

const (
	Moved Outcome = iota
	Blocked
	Occupied
	Entered
	Denied
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case Occupied:
		return "occupied"
	case Entered:
		return "entered"
	case Denied:
		return "denied"
	default:
		return "failed"
	}
}

// Move steps p one cell in dir. Walls and other players block the move;
// entrances move p to their destination. Every outcome other than Moved queues
// exactly one notification for p.
func (w *World) Move(p *Player, dir Direction) (Outcome, error) {
	r, err := lockCurrentRoom(p)
	if err != nil {
		return Failed, err
	}

	x, y := p.Position()
	dx, dy := dir.offset()
	nx, ny := x+dx, y+dy

	if !r.InBounds(nx, ny) {
		r.mu.Unlock()
		p.Notify(w.render(w.messages.Blocked, p, r.name))
		return Blocked, nil
	}

	switch occ := r.cells[cell{nx, ny}].(type) {
	case nil:
		r.placeLocked(p, nx, ny)
		r.mu.Unlock()
		return Moved, nil

	case *Structure:
		r.mu.Unlock()
		p.Notify(w.render(w.messages.Blocked, p, r.name))
		return Blocked, nil

	case *Player:
		r.mu.Unlock()
		p.Notify(w.render(w.messages.Occupied, occ, r.name))
		return Occupied, nil

	case *Entrance:
		r.mu.Unlock()
		return w.enter(p, r, x, y, occ.Destination())

	default:
		r.mu.Unlock()
		p.Notify(w.render(w.messages.Blocked, p, r.name))
		return Blocked, nil
	}
}

// enter moves p from src, where it stood at (x, y), to dest.
func (w *World) enter(p *Player, src *Room, x, y int, dest Destination) (Outcome, error) {
	out, err := w.transfer(p, src, x, y, dest)
	if err == nil {
		return out, nil
	}

	var denied *AccessDeniedError
	if errors.As(err, &denied) {
		p.Notify(w.render(w.messages.Denied, p, denied.Room))
		return Denied, nil
	}

	var unknown *UnknownRoomError
	if errors.As(err, &unknown) {
		slog.Error("entrance leads to a missing room", "from", src.name, "to", unknown.Room, "player", p.Name())
		p.Notify(w.render(w.messages.Blocked, p, src.name))
		return Failed, err
	}

	return Failed, err
}

// transfer moves p, standing at (x, y) in src, to dest. The removal from src,
// the insertion into dest and the arrival notification happen while both rooms
// are locked, so no reader sees p in neither or both rooms. A player standing on
// the destination cell blocks the transfer; any other occupant is evicted.
func (w *World) transfer(p *Player, src *Room, x, y int, dest Destination) (Outcome, error) {
	dst, err := w.Room(dest.Room)
	if err != nil {
		return Failed, err
	}
	if !dst.Allows(p.Name()) {
		return Denied, &AccessDeniedError{Room: dst.name, Player: p.Name()}
	}
	if !dst.InBounds(dest.X, dest.Y) {
		p.Notify(w.render(w.messages.Blocked, p, src.name))
		slog.Error("entrance destination out of bounds", "room", dst.name, "x", dest.X, "y", dest.Y)
		return Failed, nil
	}

	lockPair(src, dst)
	defer unlockPair(src, dst)

	// The player may have moved while no lock was held.
	if p.Room() != src {
		return Failed, ErrNotPlaced
	}
	if px, py := p.Position(); px != x || py != y {
		p.Notify(w.render(w.messages.Blocked, p, src.name))
		return Blocked, nil
	}

	if occ, ok := dst.cells[cell{dest.X, dest.Y}].(*Player); ok && occ != p {
		p.Notify(w.render(w.messages.Occupied, occ, dst.name))
		return Occupied, nil
	}

	src.detachLocked(p.ID())
	dst.placeLocked(p, dest.X, dest.Y)
	p.Notify(w.render(w.messages.Entered, p, dst.name))

	return Entered, nil
}

func (w *World) render(t *display.Template, who *Player, room string) string {
	return display.Render(t, display.MessageData{Name: who.Name(), Room: room})
}
