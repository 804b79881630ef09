package messaging

import "time"

type NatsServerOpt func(*NatsServer)

// WithStartTimeout sets how long Start waits for the server to accept connections.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		n.startupTimeout = d
	}
}

// WithHost sets the interface the server listens on.
func WithHost(host string) NatsServerOpt {
	return func(n *NatsServer) {
		n.host = host
	}
}

// WithPort sets the listening port. -1 picks a random free port.
func WithPort(port int) NatsServerOpt {
	return func(n *NatsServer) {
		n.port = port
	}
}
