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

// Package tags drives the tag collection, mirroring the optimistic mutation
// and reconciliation flow of the category feature.
package tags

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// Feature owns the tag collection and its reconciliation with the server
type Feature struct {
	ctx      context.NotectlCtx
	notifier ui.Notifier
	col      *store.Collection[client.Tag]
	subs     []socket.Subscription
}

// New returns a tag feature backed by an empty collection
func New(ctx context.NotectlCtx, notifier ui.Notifier) *Feature {
	return &Feature{
		ctx:      ctx,
		notifier: notifier,
		col:      store.NewCollection[client.Tag](),
	}
}

// Collection returns the backing collection
func (f *Feature) Collection() *store.Collection[client.Tag] {
	return f.col
}

// Fetch replaces the collection with the server's tag list
func (f *Feature) Fetch() error {
	resp, err := client.ListTags(f.ctx)
	if err != nil {
		return errors.Wrap(err, "fetching tags")
	}

	f.col.SetAll(resp.Tags)

	return nil
}

// Create creates a tag optimistically, removing the pending entry and
// notifying once on failure
func (f *Feature) Create(name, color string) (client.Tag, error) {
	now := f.ctx.Clock.Now()
	pending := client.Tag{
		ID:        store.TempID(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.col.Prepend(pending)

	resp, err := client.CreateTag(f.ctx, client.CreateTagPayload{Name: name, Color: color})
	if err != nil {
		f.col.Remove(pending.ID)
		f.notifier.Errorf("failed to create tag: %s\n", err)
		return client.Tag{}, errors.Wrap(err, "creating tag")
	}

	saved := resp.Tag.Tag(0)
	if !f.col.Swap(pending.ID, saved) {
		if _, ok := f.col.Get(saved.ID); !ok {
			f.col.Prepend(saved)
		}
	}

	return saved, nil
}

// Update updates a tag optimistically and restores the previous value on
// failure
func (f *Feature) Update(id int64, payload client.UpdateTagPayload) (client.Tag, error) {
	prev, ok := f.col.Patch(id, func(t client.Tag) client.Tag {
		if payload.Name != nil {
			t.Name = *payload.Name
		}
		if payload.Color != nil {
			t.Color = *payload.Color
		}
		return t
	})
	if !ok {
		return client.Tag{}, errors.Errorf("tag %d not found", id)
	}

	resp, err := client.UpdateTag(f.ctx, id, payload)
	if err != nil {
		f.col.Put(prev)
		f.notifier.Errorf("failed to update tag: %s\n", err)
		return client.Tag{}, errors.Wrap(err, "updating tag")
	}

	saved := resp.Tag.Tag(prev.NotesCount)
	f.col.Put(saved)

	return saved, nil
}

// Delete deletes a tag optimistically and restores the collection on failure
func (f *Feature) Delete(id int64) error {
	snapshot := f.col.Items()
	if _, ok := f.col.Remove(id); !ok {
		return errors.Errorf("tag %d not found", id)
	}

	if err := client.DeleteTag(f.ctx, id); err != nil {
		f.col.SetAll(snapshot)
		f.notifier.Errorf("failed to delete tag: %s\n", err)
		return errors.Wrap(err, "deleting tag")
	}

	return nil
}

// Mount subscribes the feature to the pushed tag events
func (f *Feature) Mount(bus *socket.Bus) {
	f.subs = []socket.Subscription{
		bus.Subscribe(socket.EventTagCreated, f.onCreated),
		bus.Subscribe(socket.EventTagUpdated, f.onUpdated),
		bus.Subscribe(socket.EventTagDeleted, f.onDeleted),
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
	resp, ok := payload.(client.RespTag)
	if !ok {
		return
	}

	saved := resp.Tag(0)
	f.col.ApplyCreated(saved, func(pending client.Tag) bool {
		return strings.EqualFold(pending.Name, saved.Name) && pending.Color == saved.Color
	})
}

func (f *Feature) onUpdated(payload interface{}) {
	resp, ok := payload.(client.RespTag)
	if !ok {
		return
	}

	prevCount := 0
	if prev, ok := f.col.Get(resp.ID); ok {
		prevCount = prev.NotesCount
	}

	f.col.ApplyUpdated(resp.Tag(prevCount), func(a, b client.Tag) bool {
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
