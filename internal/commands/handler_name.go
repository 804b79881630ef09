package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pixil98/go-street/internal/display"
	"github.com/pixil98/go-street/internal/game"
)

func (h *Handler) name(ctx context.Context, cmd *Context) error {
	old := cmd.Player.Name()
	name := strings.TrimSpace(cmd.Payload)

	err := cmd.World.Rename(cmd.Player, name)
	switch {
	case errors.Is(err, game.ErrInvalidName):
		return NewUserError("Names must be 1 to 16 letters or digits.")
	case errors.Is(err, game.ErrNameTaken):
		return NewUserError("That name is already taken.")
	case err != nil:
		return err
	}

	slog.InfoContext(ctx, "player renamed", "player", name, "was", old)
	cmd.Player.Notify(display.Render(cmd.World.Messages().Renamed, display.MessageData{Name: name}))
	return nil
}
