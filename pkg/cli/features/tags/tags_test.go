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

package tags

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/clock"
)

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
		assert.Equal(t, r.URL.Path, "/api/v1/notes/tags", "path mismatch")

		fmt.Fprint(w, `{"message": "created", "tag": {"id": 7, "name": "chores", "color": "#00ff00"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)

	saved, err := f.Create("chores", "#00ff00")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, saved.ID, int64(7), "saved id mismatch")
	assert.Equal(t, f.Collection().Len(), 1, "collection length mismatch")

	for _, tag := range f.Collection().Items() {
		if store.IsTempID(tag.ID) {
			t.Errorf("dangling pending entry with id %d", tag.ID)
		}
	}
}

func TestCreate_pendingEntryIsPrepended(t *testing.T) {
	var f *Feature
	var inFlight []client.Tag

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight = f.Collection().Items()

		fmt.Fprint(w, `{"message": "created", "tag": {"id": 7, "name": "chores", "color": "#00ff00"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f = New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Tag{{ID: 1, Name: "existing", Color: "#ff0000"}})

	_, err := f.Create("chores", "#00ff00")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(inFlight), 2, "in-flight collection length mismatch")
	assert.Equal(t, store.IsTempID(inFlight[0].ID), true, "the pending entry should be at the front")
	assert.Equal(t, inFlight[1].ID, int64(1), "the pre-existing tag should follow the pending entry")

	items := f.Collection().Items()
	assert.Equal(t, items[0].ID, int64(7), "the confirmed tag should keep the front position")
	assert.Equal(t, items[1].ID, int64(1), "the pre-existing tag should stay behind it")
}

func TestCreate_failureRollsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)

	_, err := f.Create("chores", "#00ff00")
	if err == nil {
		t.Fatal("expected an error but got nil")
	}

	assert.Equal(t, f.Collection().Len(), 0, "collection should be empty after the rollback")
	assert.Equal(t, len(notifier.errors), 1, "the failure should have been notified exactly once")
}

func TestOnCreated_matchesPendingCaseInsensitively(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)
	f.Collection().SetAll([]client.Tag{
		{ID: -1700000000000, Name: "Chores", Color: "#00ff00"},
	})

	f.onCreated(client.RespTag{ID: 7, Name: "chores", Color: "#00ff00"})

	assert.Equal(t, f.Collection().Len(), 1, "the pending entry should be replaced, not duplicated")

	got, ok := f.Collection().Get(7)
	assert.Equal(t, ok, true, "saved tag not in the collection")
	assert.Equal(t, got.Name, "chores", "name mismatch")
}

func TestOnCreated_colorMismatchDoesNotMatchPending(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)
	f.Collection().SetAll([]client.Tag{
		{ID: -1700000000000, Name: "chores", Color: "#00ff00"},
	})

	f.onCreated(client.RespTag{ID: 7, Name: "chores", Color: "#123456"})

	assert.Equal(t, f.Collection().Len(), 2, "a tag with a different color is another user action")
}

func TestUpdate_failureRollsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "name is taken"}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	orig := client.Tag{ID: 7, Name: "chores", Color: "#00ff00", NotesCount: 2}
	f.Collection().SetAll([]client.Tag{orig})

	name := "renamed"
	_, err := f.Update(7, client.UpdateTagPayload{Name: &name})
	if err == nil {
		t.Fatal("expected an error but got nil")
	}

	got, ok := f.Collection().Get(7)
	assert.Equal(t, ok, true, "tag should still be in the collection")
	assert.Equal(t, got, orig, "tag should be restored verbatim")
	assert.Equal(t, len(notifier.errors), 1, "the failure should have been notified exactly once")
}

func TestDelete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "DELETE", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/notes/tags/7", "path mismatch")
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Tag{{ID: 7, Name: "chores"}})

	if err := f.Delete(7); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, f.Collection().Len(), 0, "collection should be empty")
}
