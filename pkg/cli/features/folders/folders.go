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

// Package folders drives the folder collection. Folders follow the same
// optimistic mutation flow as categories and tags, but the server pushes no
// folder events, so there is nothing to mount on the socket bus.
package folders

import (
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// Feature owns the folder collection and its reconciliation with the server
type Feature struct {
	ctx      context.NotectlCtx
	notifier ui.Notifier
	col      *store.Collection[client.Folder]
}

// New returns a folder feature backed by an empty collection
func New(ctx context.NotectlCtx, notifier ui.Notifier) *Feature {
	return &Feature{
		ctx:      ctx,
		notifier: notifier,
		col:      store.NewCollection[client.Folder](),
	}
}

// Collection returns the backing collection
func (f *Feature) Collection() *store.Collection[client.Folder] {
	return f.col
}

// Fetch replaces the collection with the server's folder list
func (f *Feature) Fetch() error {
	resp, err := client.ListFolders(f.ctx)
	if err != nil {
		return errors.Wrap(err, "fetching folders")
	}

	f.col.SetAll(resp.Folders)

	return nil
}

// Create creates a folder optimistically, removing the pending entry and
// notifying once on failure
func (f *Feature) Create(name, color string) (client.Folder, error) {
	pending := client.Folder{
		ID:    store.TempID(),
		Name:  name,
		Color: color,
	}
	f.col.Prepend(pending)

	resp, err := client.CreateFolder(f.ctx, client.CreateFolderPayload{Name: name, Color: color})
	if err != nil {
		f.col.Remove(pending.ID)
		f.notifier.Errorf("failed to create folder: %s\n", err)
		return client.Folder{}, errors.Wrap(err, "creating folder")
	}

	saved := resp.Folder.Folder(0)
	if !f.col.Swap(pending.ID, saved) {
		if _, ok := f.col.Get(saved.ID); !ok {
			f.col.Prepend(saved)
		}
	}

	return saved, nil
}

// Update updates a folder optimistically and restores the previous value on
// failure
func (f *Feature) Update(id int64, payload client.UpdateFolderPayload) (client.Folder, error) {
	prev, ok := f.col.Patch(id, func(fo client.Folder) client.Folder {
		if payload.Name != nil {
			fo.Name = *payload.Name
		}
		if payload.Color != nil {
			fo.Color = *payload.Color
		}
		return fo
	})
	if !ok {
		return client.Folder{}, errors.Errorf("folder %d not found", id)
	}

	resp, err := client.UpdateFolder(f.ctx, id, payload)
	if err != nil {
		f.col.Put(prev)
		f.notifier.Errorf("failed to update folder: %s\n", err)
		return client.Folder{}, errors.Wrap(err, "updating folder")
	}

	saved := resp.Folder.Folder(prev.NotesCount)
	f.col.Put(saved)

	return saved, nil
}

// Delete deletes a folder optimistically and restores the collection on
// failure. The folder's notes survive in the server, unfiled.
func (f *Feature) Delete(id int64) error {
	snapshot := f.col.Items()
	if _, ok := f.col.Remove(id); !ok {
		return errors.Errorf("folder %d not found", id)
	}

	if err := client.DeleteFolder(f.ctx, id); err != nil {
		f.col.SetAll(snapshot)
		f.notifier.Errorf("failed to delete folder: %s\n", err)
		return errors.Wrap(err, "deleting folder")
	}

	return nil
}
