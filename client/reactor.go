// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/goshuirc/irc/eventmgr"
)

// cachedHandler is an event registration made before any connections
// existed, replayed onto every connection the reactor creates.
type cachedHandler struct {
	direction string
	name      string
	fn        eventmgr.HandlerFn
	priority  int
}

// Reactor manages a set of named server connections. Connections run
// independently; the reactor only fans out handler registrations and
// waits for everything to wind down.
type Reactor struct {
	mu       sync.Mutex
	servers  map[string]*ServerConnection
	handlers []cachedHandler
	logger   zerolog.Logger
	done     sync.WaitGroup
}

func NewReactor(logger zerolog.Logger) *Reactor {
	return &Reactor{
		servers: make(map[string]*ServerConnection),
		logger:  logger,
	}
}

// CreateServer makes a connection slot under the given name. The server
// is dialed later, by ServerConnection.Connect.
func (r *Reactor) CreateServer(name string) *ServerConnection {
	sc := NewServerConnection(name, r.logger)
	sc.Reactor = r

	r.mu.Lock()
	for _, cached := range r.handlers {
		sc.RegisterEvent(cached.direction, cached.name, cached.fn, cached.priority)
	}
	r.servers[name] = sc
	r.done.Add(1)
	r.mu.Unlock()

	return sc
}

// Server returns the named connection, or nil.
func (r *Reactor) Server(name string) *ServerConnection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.servers[name]
}

// RegisterEvent attaches a handler to every current and future connection.
func (r *Reactor) RegisterEvent(direction, name string, fn eventmgr.HandlerFn, priority int) {
	r.mu.Lock()
	r.handlers = append(r.handlers, cachedHandler{direction, name, fn, priority})
	servers := make([]*ServerConnection, 0, len(r.servers))
	for _, sc := range r.servers {
		servers = append(servers, sc)
	}
	r.mu.Unlock()

	for _, sc := range servers {
		sc.RegisterEvent(direction, name, fn, priority)
	}
}

// Shutdown quits every connection with the given message.
func (r *Reactor) Shutdown(message string) {
	r.mu.Lock()
	servers := make([]*ServerConnection, 0, len(r.servers))
	for _, sc := range r.servers {
		servers = append(servers, sc)
	}
	r.mu.Unlock()

	for _, sc := range servers {
		if err := sc.Quit(message); err != nil {
			r.logger.Warn().Err(err).Str("server", sc.Name).Msg("error quitting connection")
		}
	}
}

// Run blocks until every connection the reactor created has closed.
func (r *Reactor) Run() {
	r.done.Wait()
}

// connectionClosed removes a finished connection, releasing Run when the
// last one goes.
func (r *Reactor) connectionClosed(sc *ServerConnection) {
	r.mu.Lock()
	if _, exists := r.servers[sc.Name]; exists {
		delete(r.servers, sc.Name)
		r.done.Done()
	}
	r.mu.Unlock()
}
