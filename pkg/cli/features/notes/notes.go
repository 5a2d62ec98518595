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

// Package notes drives the note collection and its paginated window. The
// collection holds only the current page; changing the filter resets the
// window to the first page, and a response belonging to a superseded fetch is
// discarded.
package notes

import (
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// DefaultPageLimit is the page size used when the user does not override it
const DefaultPageLimit = 20

// Filter is the set of criteria narrowing the note window
type Filter struct {
	CategoryID *int64
	TagID      *int64
	FolderID   *int64
	Archived   *bool
	Priority   string
	Search     string
}

// Feature owns the note collection, its pagination window and its
// reconciliation with the server
type Feature struct {
	ctx      context.NotectlCtx
	notifier ui.Notifier
	col      *store.Collection[client.Note]
	pager    *store.Pager
	filter   Filter
	subs     []socket.Subscription
}

// New returns a note feature backed by an empty collection
func New(ctx context.NotectlCtx, notifier ui.Notifier) *Feature {
	return &Feature{
		ctx:      ctx,
		notifier: notifier,
		col:      store.NewCollection[client.Note](),
		pager:    store.NewPager(DefaultPageLimit),
	}
}

// Collection returns the backing collection
func (f *Feature) Collection() *store.Collection[client.Note] {
	return f.col
}

// Pager returns the pagination window
func (f *Feature) Pager() *store.Pager {
	return f.pager
}

// Filter returns the active filter
func (f *Feature) Filter() Filter {
	return f.filter
}

// SetFilter replaces the filter. A changed filter invalidates the current
// window, so the page resets to the first one.
func (f *Feature) SetFilter(filter Filter) {
	if filter == f.filter {
		return
	}

	f.filter = filter
	f.pager.ResetToFirstPage()
}

// Fetch loads the current page of notes under the active filter. A response
// that arrives after another fetch began is discarded so a stale page can
// never overwrite a newer one.
func (f *Feature) Fetch() error {
	token := f.pager.Begin()

	params := client.ListNotesParams{
		Page:       f.pager.Page(),
		Limit:      f.pager.Limit(),
		CategoryID: f.filter.CategoryID,
		TagID:      f.filter.TagID,
		FolderID:   f.filter.FolderID,
		IsArchived: f.filter.Archived,
		Priority:   f.filter.Priority,
		Search:     f.filter.Search,
	}

	resp, err := client.ListNotes(f.ctx, params)
	if err != nil {
		f.pager.Fail(token)
		return errors.Wrap(err, "fetching notes")
	}

	p := resp.Pagination
	if !f.pager.Complete(token, p.Page, p.Limit, p.Total, p.TotalPages) {
		return nil
	}

	f.col.SetAll(resp.Notes)

	return nil
}

// NextPage advances the window and fetches it
func (f *Feature) NextPage() error {
	if !f.pager.HasNext() {
		return errors.New("already on the last page")
	}

	f.pager.SetPage(f.pager.Page() + 1)

	return f.Fetch()
}

// PrevPage retreats the window and fetches it
func (f *Feature) PrevPage() error {
	if !f.pager.HasPrev() {
		return errors.New("already on the first page")
	}

	f.pager.SetPage(f.pager.Page() - 1)

	return f.Fetch()
}

// Create creates a note optimistically. New notes go to the front of the
// window. On failure the pending entry is removed and the user is notified
// once.
func (f *Feature) Create(payload client.CreateNotePayload) (client.Note, error) {
	now := f.ctx.Clock.Now()
	pending := client.Note{
		ID:         store.TempID(),
		Title:      payload.Title,
		Content:    payload.Content,
		CategoryID: payload.CategoryID,
		Priority:   payload.Priority,
		ReminderAt: payload.ReminderAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.col.Prepend(pending)

	resp, err := client.CreateNote(f.ctx, payload)
	if err != nil {
		f.col.Remove(pending.ID)
		f.notifier.Errorf("failed to create note: %s\n", err)
		return client.Note{}, errors.Wrap(err, "creating note")
	}

	saved := resp.Note.Note(nil)
	if !f.col.Swap(pending.ID, saved) {
		if _, ok := f.col.Get(saved.ID); !ok {
			f.col.Prepend(saved)
		}
	}

	return saved, nil
}

// Update updates a note optimistically and restores the previous value on
// failure
func (f *Feature) Update(id int64, payload client.UpdateNotePayload) (client.Note, error) {
	prev, ok := f.col.Patch(id, func(n client.Note) client.Note {
		if payload.Title != nil {
			n.Title = *payload.Title
		}
		if payload.Content != nil {
			n.Content = *payload.Content
		}
		if payload.CategoryID != nil {
			n.CategoryID = payload.CategoryID
		}
		if payload.Priority != nil {
			n.Priority = *payload.Priority
		}
		if payload.IsArchived != nil {
			n.IsArchived = *payload.IsArchived
		}
		if payload.IsPinned != nil {
			n.IsPinned = *payload.IsPinned
		}
		if payload.ReminderAt != nil {
			n.ReminderAt = payload.ReminderAt
		}
		return n
	})
	if !ok {
		return client.Note{}, errors.Errorf("note %d not found", id)
	}

	resp, err := client.UpdateNote(f.ctx, id, payload)
	if err != nil {
		f.col.Put(prev)
		f.notifier.Errorf("failed to update note: %s\n", err)
		return client.Note{}, errors.Wrap(err, "updating note")
	}

	saved := resp.Note.Note(prev.TagIDs)
	f.col.Put(saved)

	return saved, nil
}

// Delete deletes a note optimistically and restores the collection on failure
func (f *Feature) Delete(id int64) error {
	snapshot := f.col.Items()
	if _, ok := f.col.Remove(id); !ok {
		return errors.Errorf("note %d not found", id)
	}

	if err := client.DeleteNote(f.ctx, id); err != nil {
		f.col.SetAll(snapshot)
		f.notifier.Errorf("failed to delete note: %s\n", err)
		return errors.Wrap(err, "deleting note")
	}

	return nil
}

// SetPinned toggles the pinned flag of a note
func (f *Feature) SetPinned(id int64, pinned bool) (client.Note, error) {
	return f.Update(id, client.UpdateNotePayload{IsPinned: &pinned})
}

// SetArchived toggles the archived flag of a note
func (f *Feature) SetArchived(id int64, archived bool) (client.Note, error) {
	return f.Update(id, client.UpdateNotePayload{IsArchived: &archived})
}

// AddTag links a tag to a note optimistically
func (f *Feature) AddTag(noteID, tagID int64) error {
	prev, ok := f.col.Patch(noteID, func(n client.Note) client.Note {
		n.TagIDs = addTagID(n.TagIDs, tagID)
		return n
	})
	if !ok {
		return errors.Errorf("note %d not found", noteID)
	}

	if err := client.AddNoteTag(f.ctx, noteID, tagID); err != nil {
		f.col.Put(prev)
		f.notifier.Errorf("failed to tag note: %s\n", err)
		return errors.Wrap(err, "tagging note")
	}

	return nil
}

// RemoveTag unlinks a tag from a note optimistically
func (f *Feature) RemoveTag(noteID, tagID int64) error {
	prev, ok := f.col.Patch(noteID, func(n client.Note) client.Note {
		n.TagIDs = removeTagID(n.TagIDs, tagID)
		return n
	})
	if !ok {
		return errors.Errorf("note %d not found", noteID)
	}

	if err := client.RemoveNoteTag(f.ctx, noteID, tagID); err != nil {
		f.col.Put(prev)
		f.notifier.Errorf("failed to untag note: %s\n", err)
		return errors.Wrap(err, "untagging note")
	}

	return nil
}

// Mount subscribes the feature to the pushed note events
func (f *Feature) Mount(bus *socket.Bus) {
	f.subs = []socket.Subscription{
		bus.Subscribe(socket.EventNoteCreated, f.onCreated),
		bus.Subscribe(socket.EventNoteUpdated, f.onUpdated),
		bus.Subscribe(socket.EventNoteDeleted, f.onDeleted),
		bus.Subscribe(socket.EventNoteTagAdded, f.onTagAdded),
		bus.Subscribe(socket.EventNoteTagRemoved, f.onTagRemoved),
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
	p, ok := payload.(client.RespNote)
	if !ok {
		return
	}

	n := p.Note(nil)
	f.col.ApplyCreated(n, func(pending client.Note) bool {
		return pending.Title == n.Title && pending.Content == n.Content
	})
}

// onUpdated applies a pushed update unless the local note is newer. Pushed
// events can arrive out of order relative to HTTP responses; updatedAt decides
// which side wins.
func (f *Feature) onUpdated(payload interface{}) {
	p, ok := payload.(client.RespNote)
	if !ok {
		return
	}

	prev, exists := f.col.Get(p.ID)
	if exists && prev.UpdatedAt.After(p.UpdatedAt) {
		return
	}

	f.col.ApplyUpdated(p.Note(prev.TagIDs), noteEqual)
}

func (f *Feature) onDeleted(payload interface{}) {
	p, ok := payload.(socket.DeletedPayload)
	if !ok {
		return
	}

	f.col.ApplyDeleted(p.ID)
}

func (f *Feature) onTagAdded(payload interface{}) {
	p, ok := payload.(socket.NoteTagPayload)
	if !ok {
		return
	}

	f.col.Patch(p.NoteID, func(n client.Note) client.Note {
		n.TagIDs = addTagID(n.TagIDs, p.TagID)
		return n
	})
}

func (f *Feature) onTagRemoved(payload interface{}) {
	p, ok := payload.(socket.NoteTagPayload)
	if !ok {
		return
	}

	f.col.Patch(p.NoteID, func(n client.Note) client.Note {
		n.TagIDs = removeTagID(n.TagIDs, p.TagID)
		return n
	})
}

func addTagID(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}

	return append(ids, id)
}

func removeTagID(ids []int64, id int64) []int64 {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}

	return ids
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func noteEqual(a, b client.Note) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Content != b.Content ||
		a.Priority != b.Priority || a.IsArchived != b.IsArchived ||
		a.IsPinned != b.IsPinned || a.UserID != b.UserID {
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) || !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}
	if !ptrEqual(a.ImageURL, b.ImageURL) || !ptrEqual(a.VideoURL, b.VideoURL) ||
		!ptrEqual(a.CategoryID, b.CategoryID) {
		return false
	}
	if (a.ReminderAt == nil) != (b.ReminderAt == nil) {
		return false
	}
	if a.ReminderAt != nil && !a.ReminderAt.Equal(*b.ReminderAt) {
		return false
	}
	if len(a.TagIDs) != len(b.TagIDs) {
		return false
	}
	for i := range a.TagIDs {
		if a.TagIDs[i] != b.TagIDs[i] {
			return false
		}
	}

	return true
}
