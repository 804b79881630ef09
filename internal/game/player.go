package game

import (
	"io"
	"sync"

	"github.com/google/uuid"
)

const PlayerGlyph = "P"

// Player is a connected avatar.
type Player struct {
	entity

	mu   sync.RWMutex
	name string

	inbox notifications
	conn  io.Writer
}

// NewPlayer creates an unplaced player. conn receives chat and system frames;
// it may be nil for players that never receive them.
func NewPlayer(name, color string, conn io.Writer) *Player {
	return &Player{
		entity: newEntity(uuid.New().String(), color, PlayerGlyph, 0, 0),
		name:   name,
		conn:   conn,
	}
}

func (p *Player) Kind() Kind {
	return KindPlayer
}

func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

func (p *Player) setName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

// Notify queues a one-shot console message for the player's writer loop.
func (p *Player) Notify(msg string) {
	p.inbox.push(msg)
}

// NextNotification pops the oldest queued message. ok is false when the queue
// is empty.
func (p *Player) NextNotification() (msg string, ok bool) {
	return p.inbox.pop()
}

// PendingNotifications reports how many messages are queued.
func (p *Player) PendingNotifications() int {
	return p.inbox.len()
}

// Send writes an encoded frame to the player's connection.
func (p *Player) Send(data []byte) error {
	if p.conn == nil {
		return ErrNoConnection
	}
	_, err := p.conn.Write(data)
	return err
}

// notifications is an unbounded FIFO.
type notifications struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notifications) push(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *notifications) pop() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return "", false
	}
	msg := n.msgs[0]
	n.msgs[0] = ""
	n.msgs = n.msgs[1:]
	return msg, true
}

func (n *notifications) len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}
