package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pixil98/go-street/internal/game"
)

const quitKey = "q"

func (h *Handler) key(ctx context.Context, cmd *Context) error {
	if cmd.Payload == quitKey {
		return ErrQuit
	}

	dir, ok := game.ParseDirection(cmd.Payload)
	if !ok {
		slog.DebugContext(ctx, "ignoring unknown key", "player", cmd.Player.Name(), "key", cmd.Payload)
		return nil
	}

	out, err := cmd.World.Move(cmd.Player, dir)
	if err != nil {
		// A broken entrance has already been reported to the player and logged.
		var unknown *game.UnknownRoomError
		if errors.As(err, &unknown) {
			return nil
		}
		return err
	}

	slog.DebugContext(ctx, "player moved", "player", cmd.Player.Name(), "direction", dir, "outcome", out)
	return nil
}
