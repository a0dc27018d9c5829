// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package eventmgr provides a priority-ordered event subscriber registry
// keyed by (direction, verb), with synchronous in-order dispatch.
package eventmgr

import (
	"sort"

	"github.com/rs/zerolog"
)

// InfoMap is the bag of attributes carried by one event.
type InfoMap map[string]interface{}

// NewInfoMap returns an empty event attribute bag.
func NewInfoMap() InfoMap {
	return make(InfoMap)
}

// HandlerFn is an event callback. Handlers run synchronously and are
// expected to be fast, non-blocking code.
type HandlerFn func(event InfoMap)

// HandlerID identifies one registration for later detachment.
type HandlerID uint64

type handler struct {
	fn       HandlerFn
	priority int
	seq      uint64
	id       HandlerID
}

// EventManager routes events to subscribers. Subscribers for a key run
// lowest priority first, ties broken by registration order.
type EventManager struct {
	handlers map[string][]handler
	seq      uint64
	logger   zerolog.Logger
}

// NewEventManager returns an empty manager. Handler panics are swallowed
// silently until a logger is supplied with SetLogger.
func NewEventManager() *EventManager {
	return &EventManager{
		handlers: make(map[string][]handler),
		logger:   zerolog.Nop(),
	}
}

// SetLogger sets the logger used to report recovered handler panics.
func (em *EventManager) SetLogger(logger zerolog.Logger) {
	em.logger = logger
}

func key(direction, verb string) string {
	return direction + " " + verb
}

// Attach registers fn for the given verb and direction. Direction is one
// of "in", "out" or "both"; "both" registers under both directions.
func (em *EventManager) Attach(direction, verb string, fn HandlerFn, priority int) HandlerID {
	em.seq++
	id := HandlerID(em.seq)

	directions := []string{direction}
	if direction == "both" {
		directions = []string{"in", "out"}
	}

	for _, dir := range directions {
		k := key(dir, verb)
		em.seq++
		list := append(em.handlers[k], handler{
			fn:       fn,
			priority: priority,
			seq:      em.seq,
			id:       id,
		})
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].priority != list[j].priority {
				return list[i].priority < list[j].priority
			}
			return list[i].seq < list[j].seq
		})
		em.handlers[k] = list
	}

	return id
}

// Detach removes every registration made under the given id. Removal only
// affects future dispatches, never one already in flight.
func (em *EventManager) Detach(id HandlerID) {
	for k, list := range em.handlers {
		kept := list[:0:0]
		for _, h := range list {
			if h.id != id {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(em.handlers, k)
		} else {
			em.handlers[k] = kept
		}
	}
}

// Dispatch invokes all subscribers for the (direction, verb) key, in
// priority order. The subscriber list is copied before dispatch, so
// handlers that attach or detach only affect future dispatches. A panic
// inside one handler is isolated to that invocation; remaining handlers
// still run.
func (em *EventManager) Dispatch(direction, verb string, info InfoMap) {
	list := em.handlers[key(direction, verb)]
	if len(list) == 0 {
		return
	}

	snapshot := make([]handler, len(list))
	copy(snapshot, list)

	for _, h := range snapshot {
		em.invoke(h, verb, info)
	}
}

func (em *EventManager) invoke(h handler, verb string, info InfoMap) {
	defer func() {
		if r := recover(); r != nil {
			em.logger.Error().
				Str("verb", verb).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	h.fn(info)
}
