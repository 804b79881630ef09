package game

// Publisher delivers encoded frames to individual players.
type Publisher interface {
	PublishToPlayer(p *Player, data []byte) error
}

// DirectPublisher writes frames straight to the player's connection.
type DirectPublisher struct{}

func (DirectPublisher) PublishToPlayer(p *Player, data []byte) error {
	return p.Send(data)
}
