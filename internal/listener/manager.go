package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner plays one session over a connection.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriteCloser) error
}

type ConnectionManager struct {
	sessions SessionRunner
}

func NewConnectionManager(sessions SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
	}
}

// AcceptConnection runs a session for conn. Session failures are logged and
// never reach the listener.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriteCloser) {
	if err := m.sessions.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
