package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-street/internal/display"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/protocol"
)

// Context is what a command runs against.
type Context struct {
	World   *game.World
	Player  *game.Player
	Payload string
}

// CommandFunc runs one client command.
type CommandFunc func(ctx context.Context, cmd *Context) error

// Handler routes client frames to commands by tag.
type Handler struct {
	world    *game.World
	commands map[string]CommandFunc

	maxChatLength uint
}

type HandlerOpt func(*Handler)

// WithMaxChatLength sets how many characters of a chat line are relayed.
func WithMaxChatLength(n uint) HandlerOpt {
	return func(h *Handler) {
		h.maxChatLength = n
	}
}

func NewHandler(world *game.World, opts ...HandlerOpt) *Handler {
	h := &Handler{
		world:         world,
		commands:      make(map[string]CommandFunc),
		maxChatLength: display.DefaultChatLength,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Register built-in commands
	_ = h.Register(protocol.TagKey, h.key)
	_ = h.Register(protocol.TagChat, h.chat)
	_ = h.Register(protocol.TagName, h.name)
	return h
}

// Register adds a command for tag.
func (h *Handler) Register(tag string, fn CommandFunc) error {
	if tag == "" {
		return fmt.Errorf("command tag cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("command func cannot be nil")
	}
	if _, exists := h.commands[tag]; exists {
		return fmt.Errorf("command %q already registered", tag)
	}
	h.commands[tag] = fn
	return nil
}

// Exec runs the command for f on behalf of p. Frames with unknown tags are
// ignored.
func (h *Handler) Exec(ctx context.Context, p *game.Player, f protocol.Frame) error {
	fn, ok := h.commands[f.Tag]
	if !ok {
		slog.DebugContext(ctx, "ignoring unknown command", "player", p.Name(), "tag", f.Tag)
		return nil
	}

	return fn(ctx, &Context{
		World:   h.world,
		Player:  p,
		Payload: f.Payload,
	})
}
