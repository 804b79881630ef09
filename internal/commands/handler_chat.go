package commands

import (
	"context"
	"strings"

	"github.com/pixil98/go-street/internal/display"
)

func (h *Handler) chat(ctx context.Context, cmd *Context) error {
	text := strings.TrimSpace(cmd.Payload)
	if text == "" {
		return nil
	}

	cmd.World.Chat(cmd.Player, display.Truncate(text, h.maxChatLength))
	return nil
}
