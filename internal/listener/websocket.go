package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const DefaultWebsocketPath = "/ws"

// WebsocketListener serves the frame protocol over websocket messages. Each
// inbound message's bytes feed the same stream decoder as a raw socket, and
// each outbound write becomes one text message.
type WebsocketListener struct {
	port uint16
	path string
	cm   *ConnectionManager

	upgrader websocket.Upgrader

	connCtx     context.Context
	cancelConns context.CancelFunc
	wg          sync.WaitGroup
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = DefaultWebsocketPath
	}
	connCtx, cancel := context.WithCancel(context.Background())
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connCtx:     connCtx,
		cancelConns: cancel,
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for websocket", "port", l.port, "path", l.path)
	return l.Serve(ctx, listener)
}

// Serve handles websocket upgrades on listener until ctx is cancelled.
func (l *WebsocketListener) Serve(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(l.path, l.Handler())
	svr := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		_ = svr.Close()
		l.cancelConns()
	}()

	err := svr.Serve(listener)
	l.wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket: %w", err)
	}
	return nil
}

// Handler upgrades requests and runs a session on each.
func (l *WebsocketListener) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ws, err := l.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.DebugContext(r.Context(), "websocket upgrade", "remote", r.RemoteAddr, "error", err)
			return
		}

		l.wg.Add(1)
		defer l.wg.Done()

		slog.InfoContext(l.connCtx, "websocket connection established", "remote", r.RemoteAddr)
		l.cm.AcceptConnection(l.connCtx, &wsConn{ws: ws})
	}
}

// wsConn presents a websocket as a byte stream.
type wsConn struct {
	ws *websocket.Conn
	r  io.Reader
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			_, r, err := c.ws.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			c.r = r
		}

		n, err := c.r.Read(p)
		if errors.Is(err, io.EOF) {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
