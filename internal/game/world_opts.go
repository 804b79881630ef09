package game

import "github.com/pixil98/go-street/internal/display"

type WorldOpt func(*World)

// WithMessages sets the text shown to players for world events.
func WithMessages(m *display.Messages) WorldOpt {
	return func(w *World) {
		w.messages = m
	}
}

// WithPublisher sets how chat and system messages reach players.
func WithPublisher(p Publisher) WorldOpt {
	return func(w *World) {
		w.publisher = p
	}
}

// WithProximityRadius sets the Manhattan distance chat travels.
func WithProximityRadius(r int) WorldOpt {
	return func(w *World) {
		w.radius = r
	}
}
