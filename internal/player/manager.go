package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-street/internal/commands"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/protocol"
)

const (
	DefaultNamePrefix = "John"

	// maxNameAttempts bounds the retries when a generated name is taken.
	maxNameAttempts = 100
)

// Palette is the set of colors handed out to new players.
var Palette = []string{"GREY", "RED", "GREEN", "YELLOW", "BLUE", "CYAN", "PURPLE"}

type PlayerManager struct {
	world      *game.World
	cmdHandler *commands.Handler
	spawnRoom  string

	namePrefix string
	refresh    time.Duration
	subscriber Subscriber

	counter atomic.Uint64

	mu       sync.Mutex
	sessions map[string]*Session
}

type PlayerManagerOpt func(*PlayerManager)

// WithNamePrefix sets the prefix of generated display names.
func WithNamePrefix(prefix string) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.namePrefix = prefix
	}
}

// WithRefreshRate sets how often each session sends the room state.
func WithRefreshRate(d time.Duration) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.refresh = d
	}
}

// WithSubscriber makes sessions relay messages published to their player's
// subject.
func WithSubscriber(s Subscriber) PlayerManagerOpt {
	return func(m *PlayerManager) {
		m.subscriber = s
	}
}

func NewPlayerManager(world *game.World, cmd *commands.Handler, spawnRoom string, opts ...PlayerManagerOpt) *PlayerManager {
	pm := &PlayerManager{
		world:      world,
		cmdHandler: cmd,
		spawnRoom:  spawnRoom,
		namePrefix: DefaultNamePrefix,
		refresh:    DefaultRefreshRate,
		sessions:   map[string]*Session{},
	}

	for _, opt := range opts {
		opt(pm)
	}

	return pm
}

// Start waits for shutdown and then closes every open session.
func (m *PlayerManager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		_ = s.conn.Close()
	}
	return nil
}

// Tick logs how many players are in each room.
func (m *PlayerManager) Tick(ctx context.Context) error {
	census := m.world.Census()
	if len(census) == 0 {
		return nil
	}

	attrs := make([]any, 0, 2*len(census)+2)
	attrs = append(attrs, "total", m.world.PlayerCount())
	for room, n := range census {
		attrs = append(attrs, room, n)
	}
	slog.InfoContext(ctx, "players online", attrs...)
	return nil
}

// RunSession spawns a player for conn and plays until the session ends. The
// player is removed from the world and conn is closed before it returns.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriteCloser) error {
	out := &lockedWriter{w: conn}

	p, err := m.spawn(out)
	if err != nil {
		if errors.Is(err, game.ErrRoomFull) {
			_ = out.writeFrames(protocol.Console("The street is full. Try again later.").Encode())
		}
		_ = conn.Close()
		return fmt.Errorf("spawning player: %w", err)
	}

	s := &Session{
		conn:       conn,
		out:        out,
		player:     p,
		world:      m.world,
		cmdHandler: m.cmdHandler,
		subscriber: m.subscriber,
		refresh:    m.refresh,
	}

	m.mu.Lock()
	m.sessions[p.ID()] = s
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.sessions, p.ID())
		m.mu.Unlock()

		m.world.RemovePlayer(p)
		slog.InfoContext(ctx, "session ended", "player", p.Name(), "id", p.ID())
	}()

	slog.InfoContext(ctx, "session started", "player", p.Name(), "id", p.ID())
	return s.Play(ctx)
}

// spawn creates a player with a fresh name and color and puts it in the
// spawn room.
func (m *PlayerManager) spawn(conn io.Writer) (*game.Player, error) {
	color := Palette[rand.IntN(len(Palette))]

	for range maxNameAttempts {
		name := m.namePrefix + strconv.FormatUint(m.counter.Add(1), 10)
		p := game.NewPlayer(name, color, conn)

		err := m.world.Spawn(p, m.spawnRoom)
		if errors.Is(err, game.ErrNameTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, game.ErrNameTaken
}

// SessionCount returns the number of open sessions.
func (m *PlayerManager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
