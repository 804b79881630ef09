package game

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

// twoRooms builds "a" and "b", both 6x6, with an entrance on a's top wall at
// (3,0) leading to b at (3,4). The mover starts in a at (3,1).
func twoRooms(t *testing.T, opts ...RoomOpt) (*World, *Room, *Room, *Player) {
	t.Helper()
	w := NewWorld()
	a := newTestRoom(t, w, "a", 6, 6)
	b := newTestRoom(t, w, "b", 6, 6, opts...)
	a.Place(NewEntrance("door", "GREEN", "E", 3, 0, Destination{Room: "b", X: 3, Y: 4}))
	p := placePlayer(a, "Ann", 3, 1)
	return w, a, b, p
}

func drain(p *Player) []string {
	var msgs []string
	for {
		msg, ok := p.NextNotification()
		if !ok {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]struct {
		key    string
		expDir Direction
		expOk  bool
	}{
		"w":       {key: "w", expDir: Up, expOk: true},
		"s":       {key: "s", expDir: Down, expOk: true},
		"a":       {key: "a", expDir: Left, expOk: true},
		"d":       {key: "d", expDir: Right, expOk: true},
		"quit":    {key: "q", expOk: false},
		"upper":   {key: "W", expOk: false},
		"unknown": {key: "x", expOk: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir, ok := ParseDirection(tt.key)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if tt.expOk {
				testutil.AssertEqual(t, "direction", dir, tt.expDir)
			}
		})
	}
}

func TestWorld_MoveWithinRoom(t *testing.T) {
	tests := map[string]struct {
		startX int
		startY int
		setup  func(r *Room)
		dir    Direction
		expOut Outcome
		expX   int
		expY   int
		expMsg string
	}{
		"empty cell": {
			startX: 1, startY: 2,
			dir:    Right,
			expOut: Moved,
			expX:   2, expY: 2,
		},
		"wall": {
			startX: 1, startY: 2,
			dir:    Left,
			expOut: Blocked,
			expX:   1, expY: 2,
			expMsg: "You can't go there.",
		},
		"interior structure": {
			startX: 2, startY: 2,
			dir: Down,
			setup: func(r *Room) {
				r.Place(NewStructure("crate", "YELLOW", "x", 2, 3))
			},
			expOut: Blocked,
			expX:   2, expY: 2,
			expMsg: "You can't go there.",
		},
		"other player": {
			startX: 2, startY: 2,
			dir: Up,
			setup: func(r *Room) {
				placePlayer(r, "Bob", 2, 1)
			},
			expOut: Occupied,
			expX:   2, expY: 2,
			expMsg: "It's Bob.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := NewWorld()
			r := newTestRoom(t, w, "r", 4, 5)
			p := placePlayer(r, "Ann", tt.startX, tt.startY)
			if tt.setup != nil {
				tt.setup(r)
			}

			out, err := w.Move(p, tt.dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "outcome", out, tt.expOut)

			x, y := p.Position()
			testutil.AssertEqual(t, "x", x, tt.expX)
			testutil.AssertEqual(t, "y", y, tt.expY)
			testutil.AssertEqual(t, "room", p.Room(), r, identity)
			testutil.AssertEqual(t, "occupant", r.EntityAt(x, y), Entity(p), identity)

			msgs := drain(p)
			if tt.expMsg == "" {
				testutil.AssertEqual(t, "notification count", len(msgs), 0)
				return
			}
			testutil.AssertEqual(t, "notification count", len(msgs), 1)
			testutil.AssertEqual(t, "notification", msgs[0], tt.expMsg)
		})
	}
}

func TestWorld_MoveFreesOldCell(t *testing.T) {
	w := NewWorld()
	r := newTestRoom(t, w, "r", 5, 5)
	p := placePlayer(r, "Ann", 1, 1)

	out, err := w.Move(p, Right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "outcome", out, Moved)

	if r.EntityAt(1, 1) != nil {
		t.Error("old cell still occupied")
	}
	testutil.AssertEqual(t, "occupant", r.EntityAt(2, 1), Entity(p), identity)
	testutil.AssertEqual(t, "player count", len(r.Players(nil)), 1)
}

func TestWorld_MoveThroughEntrance(t *testing.T) {
	tests := map[string]struct {
		roomOpts []RoomOpt
		setup    func(b *Room)
		expOut   Outcome
		expRoom  string
		expX     int
		expY     int
		expMsg   string
	}{
		"open room": {
			expOut:  Entered,
			expRoom: "b",
			expX:    3, expY: 4,
			expMsg: "You have entered b.",
		},
		"whitelisted": {
			roomOpts: []RoomOpt{WithWhitelist("Ann")},
			expOut:   Entered,
			expRoom:  "b",
			expX:     3, expY: 4,
			expMsg: "You have entered b.",
		},
		"not whitelisted": {
			roomOpts: []RoomOpt{WithWhitelist("Bob")},
			expOut:   Denied,
			expRoom:  "a",
			expX:     3, expY: 1,
			expMsg: "You are not welcome in b.",
		},
		"destination has player": {
			setup: func(b *Room) {
				placePlayer(b, "Cat", 3, 4)
			},
			expOut:  Occupied,
			expRoom: "a",
			expX:    3, expY: 1,
			expMsg: "It's Cat.",
		},
		"destination has structure": {
			setup: func(b *Room) {
				b.Place(NewStructure("crate", "YELLOW", "x", 3, 4))
			},
			expOut:  Entered,
			expRoom: "b",
			expX:    3, expY: 4,
			expMsg: "You have entered b.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, a, b, p := twoRooms(t, tt.roomOpts...)
			if tt.setup != nil {
				tt.setup(b)
			}

			out, err := w.Move(p, Up)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "outcome", out, tt.expOut)

			x, y := p.Position()
			testutil.AssertEqual(t, "room", p.Room().Name(), tt.expRoom)
			testutil.AssertEqual(t, "x", x, tt.expX)
			testutil.AssertEqual(t, "y", y, tt.expY)
			msgs := drain(p)
			testutil.AssertEqual(t, "notification count", len(msgs), 1)
			testutil.AssertEqual(t, "notification", msgs[0], tt.expMsg)

			// the player is a member of exactly one room
			_, inA := a.Entity(p.ID())
			_, inB := b.Entity(p.ID())
			testutil.AssertEqual(t, "in a", inA, tt.expRoom == "a")
			testutil.AssertEqual(t, "in b", inB, tt.expRoom == "b")
			testutil.AssertEqual(t, "occupant", p.Room().EntityAt(x, y), Entity(p), identity)
		})
	}
}

func TestWorld_MoveThroughEntranceToMissingRoom(t *testing.T) {
	w := NewWorld()
	a := newTestRoom(t, w, "a", 6, 6)
	a.Place(NewEntrance("door", "GREEN", "E", 3, 0, Destination{Room: "nowhere", X: 1, Y: 1}))
	p := placePlayer(a, "Ann", 3, 1)

	out, err := w.Move(p, Up)
	testutil.AssertEqual(t, "outcome", out, Failed)

	var unknown *UnknownRoomError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRoomError, got %v", err)
	}

	x, y := p.Position()
	testutil.AssertEqual(t, "room", p.Room(), a, identity)
	testutil.AssertEqual(t, "x", x, 3)
	testutil.AssertEqual(t, "y", y, 1)
	testutil.AssertEqual(t, "notifications", len(drain(p)), 1)
}

func TestWorld_MoveUnplaced(t *testing.T) {
	p := NewPlayer("Ann", "RED", nil)

	out, err := NewWorld().Move(p, Up)
	testutil.AssertEqual(t, "outcome", out, Failed)
	if !errors.Is(err, ErrNotPlaced) {
		t.Errorf("expected ErrNotPlaced, got %v", err)
	}
}
