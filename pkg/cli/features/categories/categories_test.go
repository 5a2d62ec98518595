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

package categories

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/clock"
)

// recordingNotifier records notifications instead of writing to the terminal
type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Successf(msg string, v ...interface{}) {
	n.successes = append(n.successes, fmt.Sprintf(msg, v...))
}

func (n *recordingNotifier) Errorf(msg string, v ...interface{}) {
	n.errors = append(n.errors, fmt.Sprintf(msg, v...))
}

func newTestCtx(endpoint string) context.NotectlCtx {
	c := clock.NewMock()
	c.SetNow(time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC))

	return context.NotectlCtx{
		APIEndpoint: endpoint,
		Token:       "someToken",
		Clock:       c,
	}
}

func TestCreate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "POST", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/notes/categories", "path mismatch")

		fmt.Fprint(w, `{"message": "created", "category": {"id": 42, "name": "work", "color": "#ff0000", "icon": "Briefcase"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)

	saved, err := f.Create("work", "#ff0000", "Briefcase")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, saved.ID, int64(42), "saved id mismatch")
	assert.Equal(t, f.Collection().Len(), 1, "collection length mismatch")

	got, ok := f.Collection().Get(42)
	assert.Equal(t, ok, true, "saved category not in the collection")
	assert.Equal(t, got.Name, "work", "name mismatch")
	assert.Equal(t, len(notifier.errors), 0, "no error should have been notified")

	for _, c := range f.Collection().Items() {
		if store.IsTempID(c.ID) {
			t.Errorf("dangling pending entry with id %d", c.ID)
		}
	}
}

func TestCreate_pendingEntryIsPrepended(t *testing.T) {
	var f *Feature
	var inFlight []client.Category

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the pending entry is already in the collection while the request
		// is in flight
		inFlight = f.Collection().Items()

		fmt.Fprint(w, `{"message": "created", "category": {"id": 42, "name": "work", "color": "#ff0000", "icon": "Briefcase"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f = New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Category{
		{ID: 1, Name: "existing", Color: "#00ff00", Icon: "Home"},
	})

	_, err := f.Create("work", "#ff0000", "Briefcase")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(inFlight), 2, "in-flight collection length mismatch")
	assert.Equal(t, store.IsTempID(inFlight[0].ID), true, "the pending entry should be at the front")
	assert.Equal(t, inFlight[1].ID, int64(1), "the pre-existing category should follow the pending entry")

	items := f.Collection().Items()
	assert.Equal(t, items[0].ID, int64(42), "the confirmed category should keep the front position")
	assert.Equal(t, items[1].ID, int64(1), "the pre-existing category should stay behind it")
}

func TestCreate_failureRollsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Category{
		{ID: 1, Name: "existing", Color: "#00ff00", Icon: "Home"},
	})

	_, err := f.Create("work", "#ff0000", "Briefcase")
	if err == nil {
		t.Fatal("expected an error but got nil")
	}

	assert.Equal(t, f.Collection().Len(), 1, "collection should hold only the pre-existing category")

	_, ok := f.Collection().Get(1)
	assert.Equal(t, ok, true, "pre-existing category should survive the rollback")
	assert.Equal(t, len(notifier.errors), 1, "the failure should have been notified exactly once")
}

func TestCreate_pushArrivesBeforeResponse(t *testing.T) {
	var f *Feature

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the pushed event for the same creation lands before the HTTP
		// response is read
		f.onCreated(client.RespCategory{ID: 42, Name: "work", Color: "#ff0000", Icon: "Briefcase"})

		fmt.Fprint(w, `{"message": "created", "category": {"id": 42, "name": "work", "color": "#ff0000", "icon": "Briefcase"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f = New(newTestCtx(ts.URL), notifier)

	saved, err := f.Create("work", "#ff0000", "Briefcase")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, saved.ID, int64(42), "saved id mismatch")
	assert.Equal(t, f.Collection().Len(), 1, "the category must not be duplicated")
}

func TestUpdate_preservesCountWhenOmitted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "PUT", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/notes/categories/5", "path mismatch")

		fmt.Fprint(w, `{"message": "updated", "category": {"id": 5, "name": "renamed", "color": "#ff0000", "icon": "Briefcase"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Category{
		{ID: 5, Name: "work", Color: "#ff0000", Icon: "Briefcase", NotesCount: 3},
	})

	name := "renamed"
	saved, err := f.Update(5, client.UpdateCategoryPayload{Name: &name})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, saved.Name, "renamed", "name mismatch")
	assert.Equal(t, saved.NotesCount, 3, "the derived count should be preserved when the server omits it")
}

func TestUpdate_failureRollsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "name is taken"}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	orig := client.Category{ID: 5, Name: "work", Color: "#ff0000", Icon: "Briefcase", NotesCount: 3}
	f.Collection().SetAll([]client.Category{orig})

	name := "renamed"
	_, err := f.Update(5, client.UpdateCategoryPayload{Name: &name})
	if err == nil {
		t.Fatal("expected an error but got nil")
	}

	got, ok := f.Collection().Get(5)
	assert.Equal(t, ok, true, "category should still be in the collection")
	assert.Equal(t, got, orig, "category should be restored verbatim")
	assert.Equal(t, len(notifier.errors), 1, "the failure should have been notified exactly once")
}

func TestDelete_failureRestores(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Category{
		{ID: 1, Name: "first"},
		{ID: 2, Name: "second"},
		{ID: 3, Name: "third"},
	})

	err := f.Delete(2)
	if err == nil {
		t.Fatal("expected an error but got nil")
	}

	items := f.Collection().Items()
	assert.Equal(t, len(items), 3, "collection length mismatch")
	assert.Equal(t, items[1].ID, int64(2), "the deleted category should be restored at its position")
	assert.Equal(t, len(notifier.errors), 1, "the failure should have been notified exactly once")
}

func TestOnUpdated_noopKeepsVersion(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)
	f.Collection().SetAll([]client.Category{
		{ID: 5, Name: "work", Color: "#ff0000", Icon: "Briefcase", NotesCount: 3},
	})

	version := f.Collection().Version()
	count := 3
	f.onUpdated(client.RespCategory{ID: 5, Name: "work", Color: "#ff0000", Icon: "Briefcase", NotesCount: &count})

	assert.Equal(t, f.Collection().Version(), version, "a no-op event should not bump the version")
}

func TestOnDeleted_idempotent(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)
	f.Collection().SetAll([]client.Category{{ID: 5, Name: "work"}})

	f.onDeleted(socket.DeletedPayload{ID: 5})
	f.onDeleted(socket.DeletedPayload{ID: 5})

	assert.Equal(t, f.Collection().Len(), 0, "collection should be empty")
}

func TestOnReorder_coalescesRefetches(t *testing.T) {
	var listCalls int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&listCalls, 1)
		fmt.Fprint(w, `{"categories": [{"id": 1, "name": "work", "notesCount": 7}]}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	bus := socket.NewBus(nil, nil)
	f.Mount(bus)
	defer f.Unmount()

	for i := 0; i < 5; i++ {
		bus.Publish(socket.EventCategoriesReorder, socket.ReorderPayload{})
	}

	time.Sleep(2 * reorderDebounceInterval)

	assert.Equal(t, atomic.LoadInt64(&listCalls), int64(1), "the refetches should have been coalesced into one")

	got, ok := f.Collection().Get(1)
	assert.Equal(t, ok, true, "refetched category missing")
	assert.Equal(t, got.NotesCount, 7, "refetched count mismatch")
}
