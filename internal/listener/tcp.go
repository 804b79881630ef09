package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// TcpListener serves the frame protocol over raw TCP connections.
type TcpListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTcpListener(port uint16, cm *ConnectionManager) *TcpListener {
	return &TcpListener{
		port: port,
		cm:   cm,
	}
}

func (l *TcpListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for tcp", "port", l.port)
	return l.Serve(ctx, listener)
}

// Serve accepts connections from listener until ctx is cancelled, then waits
// for every open session to finish.
func (l *TcpListener) Serve(ctx context.Context, listener net.Listener) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Close the listener when the parent context is canceled
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				cancelConns()
				wg.Wait()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting tcp connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			slog.InfoContext(connCtx, "tcp connection established", "remote", conn.RemoteAddr())
			l.cm.AcceptConnection(connCtx, conn)
		}()
	}
}
