package zones

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/storage"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	DefaultEntranceColor  = "CYAN"
	DefaultEntranceGlyph  = "E"
	DefaultStructureColor = game.WallColor
	DefaultStructureGlyph = game.WallGlyph
)

//go:embed room.schema.json
var roomSchema string

// Schema returns the compiled JSON schema for room asset files.
func Schema() (*jsonschema.Schema, error) {
	return storage.CompileSchema("room.schema.json", roomSchema)
}

// LoadRooms reads every room asset under path.
func LoadRooms(path string) (map[string]*RoomDef, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewFileStore(path, storage.WithSchema[*RoomDef](schema))
	if err != nil {
		return nil, fmt.Errorf("loading rooms from %s: %w", path, err)
	}
	return store.GetAll(), nil
}

// RoomDef describes one room. The room's name is the id of the asset that
// holds it.
type RoomDef struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Whitelist  []string       `json:"whitelist,omitempty"`
	Entrances  []EntranceDef  `json:"entrances,omitempty"`
	Structures []StructureDef `json:"structures,omitempty"`
}

type EntranceDef struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	To    Target `json:"to"`
	Color string `json:"color,omitempty"`
	Glyph string `json:"glyph,omitempty"`
}

type Target struct {
	Room string `json:"room"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type StructureDef struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color,omitempty"`
	Glyph string `json:"glyph,omitempty"`
}

// Validate satisfies storage.ValidatingSpec. Destination rooms are not checked
// here since they may live in another file.
func (r *RoomDef) Validate() error {
	el := errors.NewErrorList()

	if r.Width < game.MinRoomSize || r.Height < game.MinRoomSize {
		el.Add(fmt.Errorf("dimensions %dx%d below minimum %d", r.Width, r.Height, game.MinRoomSize))
	}

	used := make(map[[2]int]string)
	claim := func(what string, x, y int) {
		if prev, ok := used[[2]int{x, y}]; ok {
			el.Add(fmt.Errorf("%s at (%d,%d) overlaps %s", what, x, y, prev))
			return
		}
		used[[2]int{x, y}] = what
	}

	for i, e := range r.Entrances {
		what := fmt.Sprintf("entrance %d", i)
		if !r.inBounds(e.X, e.Y) {
			el.Add(fmt.Errorf("%s at (%d,%d) is outside the room", what, e.X, e.Y))
		}
		if e.To.Room == "" {
			el.Add(fmt.Errorf("%s has no destination room", what))
		}
		if strings.ContainsAny(e.Color+e.Glyph, ":|") {
			el.Add(fmt.Errorf("%s color or glyph contains a reserved character", what))
		}
		claim(what, e.X, e.Y)
	}

	for i, s := range r.Structures {
		what := fmt.Sprintf("structure %d", i)
		if !r.inBounds(s.X, s.Y) {
			el.Add(fmt.Errorf("%s at (%d,%d) is outside the room", what, s.X, s.Y))
		}
		if strings.ContainsAny(s.Color+s.Glyph, ":|") {
			el.Add(fmt.Errorf("%s color or glyph contains a reserved character", what))
		}
		claim(what, s.X, s.Y)
	}

	return el.Err()
}

func (r *RoomDef) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
