/* Copyright 2025 notectl Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package socket

import "sync"

// Handler receives the decoded payload of an event
type Handler func(payload interface{})

// Subscription is a registered handler. Cancelling it removes exactly the
// handler it was created for.
type Subscription struct {
	bus   *Bus
	event string
	id    int64
}

// Cancel removes the subscription from the bus. Cancelling twice is a no-op.
func (s Subscription) Cancel() {
	s.bus.unsubscribe(s.event, s.id)
}

// Bus is the single subscription surface for pushed events. Features
// subscribe and unsubscribe through it instead of touching the connection;
// the bus reference-counts subscriptions and reports edge transitions so the
// owning client can connect lazily and tear down when nothing listens.
type Bus struct {
	mu       sync.Mutex
	handlers map[string]map[int64]Handler
	nextID   int64
	count    int

	// onActive fires when the subscription count leaves zero, onIdle when it
	// returns to zero. Both may be nil.
	onActive func()
	onIdle   func()
}

// NewBus returns a bus with the given lifecycle hooks
func NewBus(onActive, onIdle func()) *Bus {
	return &Bus{
		handlers: map[string]map[int64]Handler{},
		onActive: onActive,
		onIdle:   onIdle,
	}
}

// Subscribe registers a handler for the named event
func (b *Bus) Subscribe(event string, h Handler) Subscription {
	b.mu.Lock()

	b.nextID++
	id := b.nextID
	if _, ok := b.handlers[event]; !ok {
		b.handlers[event] = map[int64]Handler{}
	}
	b.handlers[event][id] = h
	b.count++
	wasFirst := b.count == 1

	b.mu.Unlock()

	if wasFirst && b.onActive != nil {
		b.onActive()
	}

	return Subscription{bus: b, event: event, id: id}
}

func (b *Bus) unsubscribe(event string, id int64) {
	b.mu.Lock()

	handlers := b.handlers[event]
	if handlers == nil {
		b.mu.Unlock()
		return
	}
	if _, ok := handlers[id]; !ok {
		b.mu.Unlock()
		return
	}

	delete(handlers, id)
	if len(handlers) == 0 {
		delete(b.handlers, event)
	}
	b.count--
	wasLast := b.count == 0

	b.mu.Unlock()

	if wasLast && b.onIdle != nil {
		b.onIdle()
	}
}

// Count returns the number of live subscriptions
func (b *Bus) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

// Publish delivers the payload to every handler of the named event
func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.Lock()
	handlers := b.handlers[event]
	copies := make([]Handler, 0, len(handlers))
	for _, h := range handlers {
		copies = append(copies, h)
	}
	b.mu.Unlock()

	for _, h := range copies {
		h(payload)
	}
}
