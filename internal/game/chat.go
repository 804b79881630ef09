package game

import (
	"log/slog"

	"github.com/pixil98/go-street/internal/protocol"
)

// Distance is the Manhattan distance between two cells.
func Distance(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Chat relays text from sender to every player in the sender's room within the
// proximity radius, the sender included. Delivery failures are logged and
// skipped. It returns the number of players the frame reached.
func (w *World) Chat(sender *Player, text string) int {
	r, err := rlockCurrentRoom(sender)
	if err != nil {
		return 0
	}
	sx, sy := sender.Position()
	recipients := make([]*Player, 0, len(r.entities))
	for _, e := range r.entities {
		p, ok := e.(*Player)
		if !ok {
			continue
		}
		px, py := p.Position()
		if Distance(sx, sy, px, py) <= w.radius {
			recipients = append(recipients, p)
		}
	}
	r.mu.RUnlock()

	frame := protocol.Chat(sender.Color(), sender.Name(), text).Encode()
	return w.deliver(recipients, frame)
}

// Broadcast sends a system message to every player in room except exclude,
// regardless of distance.
func (w *World) Broadcast(room *Room, text string, exclude *Player) int {
	recipients := room.Players(func(p *Player) bool {
		return p != exclude
	})
	return w.deliver(recipients, protocol.GlobalMessage(text).Encode())
}

func (w *World) deliver(recipients []*Player, frame []byte) int {
	delivered := 0
	for _, p := range recipients {
		err := w.publisher.PublishToPlayer(p, frame)
		if err != nil {
			slog.Debug("dropping message for player", "player", p.Name(), "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
