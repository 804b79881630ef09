package messaging

import (
	"github.com/pixil98/go-street/internal/game"
)

// PlayerSubject is the subject a player's session listens on.
func PlayerSubject(id string) string {
	return "player." + id
}

// NatsPublisher delivers frames to players through their NATS subjects.
type NatsPublisher struct {
	server *NatsServer
}

func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) PublishToPlayer(player *game.Player, data []byte) error {
	return p.server.Publish(PlayerSubject(player.ID()), data)
}
