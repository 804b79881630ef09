package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"
)

// identity compares rooms and players by pointer; both have unexported
// fields that cmp cannot inspect.
var identity = cmp.Options{
	cmp.Comparer(func(a, b *Room) bool { return a == b }),
	cmp.Comparer(func(a, b *Player) bool { return a == b }),
}

func newTestRoom(t *testing.T, w *World, name string, width, height int, opts ...RoomOpt) *Room {
	t.Helper()
	r, err := w.CreateRoom(name, width, height, opts...)
	if err != nil {
		t.Fatalf("creating room %q: %v", name, err)
	}
	return r
}

func placePlayer(r *Room, name string, x, y int) *Player {
	p := NewPlayer(name, "RED", nil)
	p.pos.x, p.pos.y = x, y
	r.Place(p)
	return p
}

func TestNewRoom_Borders(t *testing.T) {
	tests := map[string]struct {
		width  int
		height int
	}{
		"minimum":   {width: 3, height: 3},
		"wide":      {width: 32, height: 16},
		"tall":      {width: 4, height: 9},
		"rectangle": {width: 7, height: 5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := newTestRoom(t, NewWorld(), "r", tt.width, tt.height)

			for y := 0; y < tt.height; y++ {
				for x := 0; x < tt.width; x++ {
					e := r.EntityAt(x, y)
					border := x == 0 || y == 0 || x == tt.width-1 || y == tt.height-1
					if border {
						if e == nil || e.Kind() != KindStructure {
							t.Errorf("expected structure at (%d,%d), got %v", x, y, e)
						}
						continue
					}
					if e != nil {
						t.Errorf("expected empty interior at (%d,%d), got %s", x, y, e.ID())
					}
				}
			}

			testutil.AssertEqual(t, "entity count", r.Len(), 2*(tt.width+tt.height)-4)
			for _, e := range r.Entities(KindStructure) {
				if e.Room() != r {
					t.Errorf("structure %s does not point back at its room", e.ID())
				}
			}
		})
	}
}

func TestNewRoom_Invalid(t *testing.T) {
	tests := map[string]struct {
		name   string
		width  int
		height int
		expErr string
	}{
		"too narrow":    {name: "r", width: 2, height: 5, expErr: "below minimum"},
		"too short":     {name: "r", width: 5, height: 0, expErr: "below minimum"},
		"empty name":    {name: "", width: 5, height: 5, expErr: "reserved character"},
		"colon in name": {name: "a:b", width: 5, height: 5, expErr: "reserved character"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewWorld().CreateRoom(tt.name, tt.width, tt.height)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestRoom_PlaceEvicts(t *testing.T) {
	r := newTestRoom(t, NewWorld(), "r", 6, 6)

	first := NewStructure("pillar", "GREY", "#", 2, 2)
	evicted := r.Place(first)
	if evicted != nil {
		t.Fatalf("expected nothing evicted, got %s", evicted.ID())
	}

	second := NewEntrance("door", "GREEN", "E", 2, 2, Destination{Room: "r", X: 1, Y: 1})
	evicted = r.Place(second)
	if evicted != first {
		t.Fatalf("expected pillar to be evicted, got %v", evicted)
	}

	testutil.AssertEqual(t, "occupant", r.EntityAt(2, 2).ID(), "door")
	_, ok := r.Entity("pillar")
	testutil.AssertEqual(t, "pillar member", ok, false)
	if first.Room() != nil {
		t.Error("evicted entity still points at the room")
	}
	testutil.AssertEqual(t, "entrances", len(r.Entities(KindEntrance)), 1)
}

func TestRoom_PlaceFromAnotherRoom(t *testing.T) {
	w := NewWorld()
	a := newTestRoom(t, w, "a", 6, 6)
	b := newTestRoom(t, w, "b", 6, 6)
	p := placePlayer(a, "Ann", 2, 3)

	evicted := b.Place(p)
	if evicted != nil {
		t.Fatalf("expected nothing evicted, got %s", evicted.ID())
	}

	_, inA := a.Entity(p.ID())
	_, inB := b.Entity(p.ID())
	testutil.AssertEqual(t, "in a", inA, false)
	testutil.AssertEqual(t, "in b", inB, true)
	testutil.AssertEqual(t, "room", p.Room(), b, identity)
	if a.EntityAt(2, 3) != nil {
		t.Error("old cell still occupied")
	}
	testutil.AssertEqual(t, "occupant", b.EntityAt(2, 3), Entity(p), identity)
	testutil.AssertEqual(t, "players in a", len(a.Players(nil)), 0)
}

func TestRoom_PlaceReplacesWall(t *testing.T) {
	r := newTestRoom(t, NewWorld(), "r", 5, 5)
	before := r.Len()

	r.Place(NewEntrance("door", "GREEN", "E", 2, 0, Destination{Room: "r", X: 2, Y: 3}))

	testutil.AssertEqual(t, "entity count", r.Len(), before)
	testutil.AssertEqual(t, "kind", r.EntityAt(2, 0).Kind(), KindEntrance)
}

func TestRoom_Remove(t *testing.T) {
	r := newTestRoom(t, NewWorld(), "r", 5, 5)
	p := placePlayer(r, "Bob", 2, 2)

	testutil.AssertEqual(t, "missing id", r.Remove("nope"), false)
	testutil.AssertEqual(t, "first remove", r.Remove(p.ID()), true)
	testutil.AssertEqual(t, "second remove", r.Remove(p.ID()), false)

	if r.EntityAt(2, 2) != nil {
		t.Error("cell still occupied after remove")
	}
	if p.Room() != nil {
		t.Error("removed player still points at the room")
	}
}

func TestRoom_Players(t *testing.T) {
	r := newTestRoom(t, NewWorld(), "r", 8, 8)
	placePlayer(r, "Ann", 1, 1)
	placePlayer(r, "Bob", 2, 1)
	placePlayer(r, "Cat", 3, 1)

	testutil.AssertEqual(t, "all", len(r.Players(nil)), 3)
	testutil.AssertEqual(t, "filtered", len(r.Players(func(p *Player) bool {
		return p.Name() != "Bob"
	})), 2)
	testutil.AssertEqual(t, "player entities", len(r.Entities(KindPlayer)), 3)
}

func TestRoom_Whitelist(t *testing.T) {
	w := NewWorld()
	open := newTestRoom(t, w, "open", 4, 4)
	closed := newTestRoom(t, w, "closed", 4, 4, WithWhitelist("Ann"))
	empty := newTestRoom(t, w, "empty", 4, 4, WithWhitelist())

	testutil.AssertEqual(t, "open allows", open.Allows("Bob"), true)
	testutil.AssertEqual(t, "closed allows Ann", closed.Allows("Ann"), true)
	testutil.AssertEqual(t, "closed allows Bob", closed.Allows("Bob"), false)
	testutil.AssertEqual(t, "empty allows Ann", empty.Allows("Ann"), false)
	testutil.AssertEqual(t, "open restricted", open.HasWhitelist(), false)
	testutil.AssertEqual(t, "empty restricted", empty.HasWhitelist(), true)
}

func TestRoom_Snapshot(t *testing.T) {
	r := newTestRoom(t, NewWorld(), "r", 3, 3)
	p := placePlayer(r, "Bob", 1, 1)

	snap := r.Snapshot()
	testutil.AssertEqual(t, "width", snap.Width, 3)
	testutil.AssertEqual(t, "height", snap.Height, 3)
	testutil.AssertEqual(t, "entities", len(snap.Entities), 9)

	found := false
	for _, f := range snap.Entities {
		if f.ID == p.ID() {
			found = true
			testutil.AssertEqual(t, "room", f.Room, "r")
			testutil.AssertEqual(t, "glyph", f.Glyph, PlayerGlyph)
		}
	}
	testutil.AssertEqual(t, "player in snapshot", found, true)
}

func TestWorld_CreateRoomDuplicate(t *testing.T) {
	w := NewWorld()
	newTestRoom(t, w, "spawn", 5, 5)

	_, err := w.CreateRoom("spawn", 8, 8)
	var dup *DuplicateRoomError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRoomError, got %v", err)
	}
	testutil.AssertEqual(t, "room", dup.Room, "spawn")

	r, err := w.Room("spawn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "original kept", r.Width(), 5)
}

func TestWorld_RoomUnknown(t *testing.T) {
	_, err := NewWorld().Room("nowhere")
	var unknown *UnknownRoomError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRoomError, got %v", err)
	}
	testutil.AssertEqual(t, "room", unknown.Room, "nowhere")
}
