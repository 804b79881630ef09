package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pixil98/go-street/internal/commands"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/messaging"
	"github.com/pixil98/go-street/internal/protocol"
	"golang.org/x/sync/errgroup"
)

const DefaultRefreshRate = 100 * time.Millisecond

// errSessionOver ends the session's task group without being reported as a
// failure.
var errSessionOver = errors.New("session over")

// Subscriber delivers messages published to a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Session is one connected player: a reader applying client commands and a
// writer streaming room state back.
type Session struct {
	conn   io.ReadWriteCloser
	out    *lockedWriter
	player *game.Player

	world      *game.World
	cmdHandler *commands.Handler
	subscriber Subscriber
	refresh    time.Duration
}

// Play runs the session until the client quits, the connection fails or ctx
// is cancelled. The connection is closed on return.
func (s *Session) Play(ctx context.Context) error {
	if s.subscriber != nil {
		unsub, err := s.subscriber.Subscribe(messaging.PlayerSubject(s.player.ID()), func(data []byte) {
			if _, err := s.out.Write(data); err != nil {
				slog.Debug("relaying message to player", "player", s.player.Name(), "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("subscribing to player messages: %w", err)
		}
		defer unsub()
	}

	g, gctx := errgroup.WithContext(ctx)

	// Closing the connection unblocks whichever task is still running.
	g.Go(func() error {
		<-gctx.Done()
		_ = s.conn.Close()
		return nil
	})
	g.Go(func() error {
		return s.read(gctx)
	})
	g.Go(func() error {
		return s.write(gctx)
	})

	err := g.Wait()
	if errors.Is(err, errSessionOver) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) read(ctx context.Context) error {
	dec := protocol.NewDecoder(s.conn)
	for {
		f, err := dec.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				slog.DebugContext(ctx, "reading from player", "player", s.player.Name(), "error", err)
			}
			return errSessionOver
		}

		err = s.cmdHandler.Exec(ctx, s.player, f)
		if err == nil {
			continue
		}

		var userErr *commands.UserError
		switch {
		case errors.Is(err, commands.ErrQuit):
			slog.InfoContext(ctx, "player quit", "player", s.player.Name())
			return errSessionOver
		case errors.As(err, &userErr):
			if err := s.out.writeFrames(protocol.Console(userErr.Message).Encode()); err != nil {
				return errSessionOver
			}
		default:
			return fmt.Errorf("command execution failed: %w", err)
		}
	}
}

func (s *Session) write(ctx context.Context) error {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		snap, self, err := s.world.Observe(s.player)
		if err != nil {
			return fmt.Errorf("observing room: %w", err)
		}

		frames := [][]byte{
			protocol.Play(self).Encode(),
			snap.Frame().Encode(),
		}
		if msg, ok := s.player.NextNotification(); ok {
			frames = append(frames, protocol.Console(msg).Encode())
		}

		if err := s.out.writeFrames(frames...); err != nil {
			slog.DebugContext(ctx, "writing to player", "player", s.player.Name(), "error", err)
			return errSessionOver
		}
	}
}
