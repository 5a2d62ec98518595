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

// Package store holds the in-memory collections that are the single source of
// truth for rendering. All mutation goes through collection methods guarded by
// a mutex, so HTTP response handlers and socket event handlers share one
// writer surface.
package store

import (
	"sync"
	"sync/atomic"
	"time"
)

// Entity is an item kept in a collection. Server-assigned ids are positive;
// pending optimistic entries carry negative temporary ids.
type Entity interface {
	EntityID() int64
}

var lastTempID int64

// TempID returns a negative identifier for a pending optimistic entry. The
// value is derived from the current time in milliseconds and guaranteed not to
// collide with another TempID issued in the same millisecond, nor with any
// server id, which are positive.
func TempID() int64 {
	for {
		last := atomic.LoadInt64(&lastTempID)
		next := -time.Now().UnixMilli()
		if next >= last {
			next = last - 1
		}
		if atomic.CompareAndSwapInt64(&lastTempID, last, next) {
			return next
		}
	}
}

// IsTempID reports whether the given id marks a pending optimistic entry
func IsTempID(id int64) bool {
	return id < 0
}

// Collection is an ordered set of entities with at most one entry per id.
// A version counter bumps on every observable change; appliers that turn out
// to be no-ops leave the version untouched so watchers do not re-render.
type Collection[T Entity] struct {
	mu        sync.RWMutex
	items     []T
	version   uint64
	listeners map[int64]func()
	nextLn    int64
}

// NewCollection returns an empty collection
func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{
		listeners: map[int64]func(){},
	}
}

// Items returns a copy of the collection in order
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ret := make([]T, len(c.items))
	copy(ret, c.items)
	return ret
}

// Len returns the number of entries
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Version returns the current version of the collection
func (c *Collection[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.version
}

// Get returns the entity with the given id
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}

	var zero T
	return zero, false
}

// Subscribe registers a callback invoked after every observable change.
// It returns a cancel function.
func (c *Collection[T]) Subscribe(fn func()) func() {
	c.mu.Lock()
	c.nextLn++
	id := c.nextLn
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// touch must be called with the write lock held
func (c *Collection[T]) touch() {
	c.version++
	for _, fn := range c.listeners {
		go fn()
	}
}

// SetAll replaces the entire collection, e.g. after a full refetch
func (c *Collection[T]) SetAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]T, len(items))
	copy(c.items, items)
	c.touch()
}

// Prepend inserts an entity at the front of the collection
func (c *Collection[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]T{item}, c.items...)
	c.touch()
}

// Append inserts an entity at the back of the collection
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, item)
	c.touch()
}

// Put replaces the entity with the same id in place, or appends the entity
// when its id is absent. Used to restore a snapshot verbatim on rollback.
func (c *Collection[T]) Put(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			c.items[i] = item
			c.touch()
			return
		}
	}

	c.items = append(c.items, item)
	c.touch()
}

// Patch applies fn to the entity with the given id and returns the value it
// held before the patch
func (c *Collection[T]) Patch(id int64, fn func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == id {
			old := c.items[i]
			c.items[i] = fn(old)
			c.touch()
			return old, true
		}
	}

	var zero T
	return zero, false
}

// Swap replaces the entity with oldID by the given entity, preserving its
// position. Used to reconcile a pending placeholder with the server's entity.
func (c *Collection[T]) Swap(oldID int64, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == oldID {
			c.items[i] = item
			c.touch()
			return true
		}
	}

	return false
}

// Remove deletes the entity with the given id and returns it
func (c *Collection[T]) Remove(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == id {
			removed := c.items[i]
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.touch()
			return removed, true
		}
	}

	var zero T
	return zero, false
}

// FindPending returns the first pending entry (negative id) matching the
// given predicate
func (c *Collection[T]) FindPending(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if IsTempID(item.EntityID()) && match(item) {
			return item, true
		}
	}

	var zero T
	return zero, false
}

// ApplyCreated reconciles a pushed creation event with the collection. If the
// id already exists the event is a duplicate and is dropped. Otherwise a
// pending placeholder matching the predicate is replaced in place; failing
// that, the entity is appended.
func (c *Collection[T]) ApplyCreated(item T, matchPending func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			return
		}
	}

	if matchPending != nil {
		for i := range c.items {
			if IsTempID(c.items[i].EntityID()) && matchPending(c.items[i]) {
				c.items[i] = item
				c.touch()
				return
			}
		}
	}

	c.items = append(c.items, item)
	c.touch()
}

// ApplyUpdated reconciles a pushed update event with the collection. The event
// is applied only if it differs from the in-memory entity per the given
// equality; a no-op event does not bump the version. An event for an absent id
// is dropped.
func (c *Collection[T]) ApplyUpdated(item T, equal func(a, b T) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			if equal != nil && equal(c.items[i], item) {
				return false
			}
			c.items[i] = item
			c.touch()
			return true
		}
	}

	return false
}

// ApplyDeleted reconciles a pushed deletion event with the collection. The
// operation is idempotent: an absent id is a no-op, not an error.
func (c *Collection[T]) ApplyDeleted(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.touch()
			return true
		}
	}

	return false
}
