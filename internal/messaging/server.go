package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var ErrNotStarted = errors.New("nats server not started")

// NatsServer runs an embedded NATS server together with the client connection
// the process uses to publish to and subscribe on it.
type NatsServer struct {
	ns   *server.Server
	conn *nats.Conn

	ready    chan struct{}
	failed   chan struct{}
	startErr error

	startupTimeout time.Duration
	host           string
	port           int
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		ready:          make(chan struct{}),
		failed:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
		NoLog:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

// Start runs the server until ctx is cancelled.
func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return n.fail(fmt.Errorf("nats server not ready for connections after %s", n.startupTimeout))
	}

	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		return n.fail(fmt.Errorf("creating nats client connection: %w", err))
	}
	n.conn = conn
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

func (n *NatsServer) fail(err error) error {
	n.ns.Shutdown()
	n.startErr = err
	close(n.failed)
	return err
}

// WaitReady blocks until Start has connected the client. It returns the
// startup error if Start gave up, or ctx's error if ctx ends first.
func (n *NatsServer) WaitReady(ctx context.Context) error {
	select {
	case <-n.ready:
		return nil
	case <-n.failed:
		return n.startErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *NatsServer) started() bool {
	select {
	case <-n.ready:
		return true
	default:
		return false
	}
}

// Subscribe calls handler for each message on subject. The returned function
// removes the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if !n.started() {
		return nil, ErrNotStarted
	}
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	// Make sure the server knows about the interest before anyone publishes.
	if err := n.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription to %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Publish sends data to subject.
func (n *NatsServer) Publish(subject string, data []byte) error {
	if !n.started() {
		return ErrNotStarted
	}
	return n.conn.Publish(subject, data)
}
