package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-street/internal/commands"
	"github.com/pixil98/go-street/internal/driver"
	"github.com/pixil98/go-street/internal/game"
	"github.com/pixil98/go-street/internal/listener"
	"github.com/pixil98/go-street/internal/messaging"
	"github.com/pixil98/go-street/internal/player"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	messages, err := cfg.Messages.Build()
	if err != nil {
		return nil, fmt.Errorf("building messages: %w", err)
	}

	worldOpts := []game.WorldOpt{
		game.WithMessages(messages),
		game.WithProximityRadius(cfg.Session.proximityRadius()),
	}
	pmOpts := []player.PlayerManagerOpt{
		player.WithNamePrefix(cfg.Session.namePrefix()),
		player.WithRefreshRate(cfg.Session.refreshRate()),
	}

	workers := service.WorkerList{}

	// Route chat and system messages through NATS when enabled
	var ns *messaging.NatsServer
	if cfg.Nats.Enabled {
		ns, err = cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		worldOpts = append(worldOpts, game.WithPublisher(messaging.NewNatsPublisher(ns)))
		pmOpts = append(pmOpts, player.WithSubscriber(ns))
		workers["nats"] = ns
	}

	world, err := cfg.World.buildWorld(worldOpts...)
	if err != nil {
		return nil, err
	}

	cmdHandler := commands.NewHandler(world, commands.WithMaxChatLength(cfg.Session.maxChatLength()))
	pm := player.NewPlayerManager(world, cmdHandler, cfg.World.spawnRoom(), pmOpts...)
	cm := listener.NewConnectionManager(pm)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		worker, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = worker
	}
	if ns != nil {
		// Sessions subscribe on connect, so listeners wait for the broker.
		listeners = gateListeners(ns, listeners)
	}

	// Setup the census driver
	d := driver.NewDriver([]driver.Manager{pm}, driver.WithTickLength(cfg.tickInterval()))

	workers["driver"] = d
	workers["players"] = pm
	workers["listeners"] = &listeners

	return workers, nil
}

// readyGate holds a listener back until the broker accepts clients, so every
// session can subscribe to its subject.
type readyGate struct {
	ns     *messaging.NatsServer
	worker service.Worker
}

func (g *readyGate) Start(ctx context.Context) error {
	if err := g.ns.WaitReady(ctx); err != nil {
		return fmt.Errorf("waiting for nats: %w", err)
	}
	return g.worker.Start(ctx)
}

func gateListeners(ns *messaging.NatsServer, listeners service.WorkerList) service.WorkerList {
	gated := make(service.WorkerList, len(listeners))
	for name, w := range listeners {
		gated[name] = &readyGate{ns: ns, worker: w}
	}
	return gated
}
