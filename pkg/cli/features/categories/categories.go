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

// Package categories drives the category collection. Mutations are applied
// optimistically and rolled back on failure; pushed events are reconciled
// into the same collection.
package categories

import (
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// reorderDebounceInterval coalesces bursts of reorder signals into one refetch
const reorderDebounceInterval = 300 * time.Millisecond

// Feature owns the category collection and its reconciliation with the server
type Feature struct {
	ctx      context.NotectlCtx
	notifier ui.Notifier
	col      *store.Collection[client.Category]
	refetch  func(f func())
	subs     []socket.Subscription
}

// New returns a category feature backed by an empty collection
func New(ctx context.NotectlCtx, notifier ui.Notifier) *Feature {
	return &Feature{
		ctx:      ctx,
		notifier: notifier,
		col:      store.NewCollection[client.Category](),
		refetch:  debounce.New(reorderDebounceInterval),
	}
}

// Collection returns the backing collection
func (f *Feature) Collection() *store.Collection[client.Category] {
	return f.col
}

// Fetch replaces the collection with the server's category list
func (f *Feature) Fetch() error {
	resp, err := client.ListCategories(f.ctx)
	if err != nil {
		return errors.Wrap(err, "fetching categories")
	}

	f.col.SetAll(resp.Categories)

	return nil
}

// Create creates a category optimistically. The collection holds a pending
// entry with a temporary id until the server acknowledges, at which point the
// entry is swapped for the server's category. On failure the entry is removed
// and the user is notified once.
func (f *Feature) Create(name, color, icon string) (client.Category, error) {
	now := f.ctx.Clock.Now()
	pending := client.Category{
		ID:        store.TempID(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.col.Prepend(pending)

	resp, err := client.CreateCategory(f.ctx, client.CreateCategoryPayload{
		Name:  name,
		Color: color,
		Icon:  icon,
	})
	if err != nil {
		f.col.Remove(pending.ID)
		f.notifier.Errorf("failed to create category: %s\n", err)
		return client.Category{}, errors.Wrap(err, "creating category")
	}

	saved := resp.Category.Category(0)
	if !f.col.Swap(pending.ID, saved) {
		// a pushed event reconciled the pending entry before the response
		// arrived. The entry must not be duplicated.
		if _, ok := f.col.Get(saved.ID); !ok {
			f.col.Prepend(saved)
		}
	}

	return saved, nil
}

// Update updates a category optimistically and restores the previous value on
// failure
func (f *Feature) Update(id int64, payload client.UpdateCategoryPayload) (client.Category, error) {
	prev, ok := f.col.Patch(id, func(c client.Category) client.Category {
		if payload.Name != nil {
			c.Name = *payload.Name
		}
		if payload.Color != nil {
			c.Color = *payload.Color
		}
		if payload.Icon != nil {
			c.Icon = *payload.Icon
		}
		return c
	})
	if !ok {
		return client.Category{}, errors.Errorf("category %d not found", id)
	}

	resp, err := client.UpdateCategory(f.ctx, id, payload)
	if err != nil {
		f.col.Put(prev)
		f.notifier.Errorf("failed to update category: %s\n", err)
		return client.Category{}, errors.Wrap(err, "updating category")
	}

	saved := resp.Category.Category(prev.NotesCount)
	f.col.Put(saved)

	return saved, nil
}

// Delete deletes a category optimistically and restores the collection on
// failure
func (f *Feature) Delete(id int64) error {
	snapshot := f.col.Items()
	if _, ok := f.col.Remove(id); !ok {
		return errors.Errorf("category %d not found", id)
	}

	if err := client.DeleteCategory(f.ctx, id); err != nil {
		f.col.SetAll(snapshot)
		f.notifier.Errorf("failed to delete category: %s\n", err)
		return errors.Wrap(err, "deleting category")
	}

	return nil
}

// Mount subscribes the feature to the pushed category events
func (f *Feature) Mount(bus *socket.Bus) {
	f.subs = []socket.Subscription{
		bus.Subscribe(socket.EventCategoryCreated, f.onCreated),
		bus.Subscribe(socket.EventCategoryUpdated, f.onUpdated),
		bus.Subscribe(socket.EventCategoryDeleted, f.onDeleted),
		bus.Subscribe(socket.EventCategoriesReorder, f.onReorder),
	}
}

// Unmount cancels the feature's subscriptions
func (f *Feature) Unmount() {
	for _, s := range f.subs {
		s.Cancel()
	}
	f.subs = nil
}

func (f *Feature) onCreated(payload interface{}) {
	resp, ok := payload.(client.RespCategory)
	if !ok {
		return
	}

	saved := resp.Category(0)
	f.col.ApplyCreated(saved, func(pending client.Category) bool {
		return strings.EqualFold(pending.Name, saved.Name) &&
			pending.Color == saved.Color &&
			pending.Icon == saved.Icon
	})
}

func (f *Feature) onUpdated(payload interface{}) {
	resp, ok := payload.(client.RespCategory)
	if !ok {
		return
	}

	prevCount := 0
	if prev, ok := f.col.Get(resp.ID); ok {
		prevCount = prev.NotesCount
	}

	f.col.ApplyUpdated(resp.Category(prevCount), func(a, b client.Category) bool {
		return a == b
	})
}

func (f *Feature) onDeleted(payload interface{}) {
	p, ok := payload.(socket.DeletedPayload)
	if !ok {
		return
	}

	f.col.ApplyDeleted(p.ID)
}

// onReorder refetches the whole list. The server signals a reordering or a
// derived-count change without carrying a delta, so the only correct response
// is a full fetch, coalesced so event bursts do not stampede the server.
func (f *Feature) onReorder(payload interface{}) {
	f.refetch(func() {
		if err := f.Fetch(); err != nil {
			log.Debug("refetching categories after a reorder signal: %s\n", err)
		}
	})
}
