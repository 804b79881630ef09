package zones

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pixil98/go-street/internal/game"
)

// Build creates a room in w for every definition. Interior structures are
// placed before entrances. Entrances leading to rooms that do not exist are
// logged and left in place; walking into one fails at runtime.
func Build(w *game.World, defs map[string]*RoomDef) error {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		def := defs[name]
		if err := def.Validate(); err != nil {
			return fmt.Errorf("room %q: %w", name, err)
		}

		var opts []game.RoomOpt
		if def.Whitelist != nil {
			opts = append(opts, game.WithWhitelist(def.Whitelist...))
		}

		r, err := w.CreateRoom(name, def.Width, def.Height, opts...)
		if err != nil {
			return fmt.Errorf("creating room: %w", err)
		}

		for _, s := range def.Structures {
			r.Place(game.NewStructure(
				fmt.Sprintf("structure_%s_%d,%d", name, s.X, s.Y),
				orDefault(s.Color, DefaultStructureColor),
				orDefault(s.Glyph, DefaultStructureGlyph),
				s.X, s.Y,
			))
		}
		for _, e := range def.Entrances {
			r.Place(game.NewEntrance(
				fmt.Sprintf("entrance_%s_%d,%d", name, e.X, e.Y),
				orDefault(e.Color, DefaultEntranceColor),
				orDefault(e.Glyph, DefaultEntranceGlyph),
				e.X, e.Y,
				game.Destination{Room: e.To.Room, X: e.To.X, Y: e.To.Y},
			))
		}
	}

	for _, name := range names {
		for _, e := range defs[name].Entrances {
			dst, err := w.Room(e.To.Room)
			if err != nil {
				slog.Error("entrance leads to a missing room", "room", name, "x", e.X, "y", e.Y, "to", e.To.Room)
				continue
			}
			if !dst.InBounds(e.To.X, e.To.Y) {
				slog.Error("entrance leads outside its destination", "room", name, "x", e.X, "y", e.Y, "to", e.To.Room, "to_x", e.To.X, "to_y", e.To.Y)
			}
		}
	}

	slog.Info("world built", "rooms", len(names))
	return nil
}
