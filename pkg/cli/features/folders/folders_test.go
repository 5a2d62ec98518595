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

package folders

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

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "GET", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/notes/folders", "path mismatch")

		fmt.Fprint(w, `{"folders": [{"id": 1, "name": "work", "color": "#ff0000", "notesCount": 4}]}`)
	}))
	defer ts.Close()

	f := New(newTestCtx(ts.URL), &recordingNotifier{})

	if err := f.Fetch(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, f.Collection().Len(), 1, "collection length mismatch")

	folder, ok := f.Collection().Get(1)
	assert.Equal(t, ok, true, "folder should be present")
	assert.Equal(t, folder.Name, "work", "name mismatch")
	assert.Equal(t, folder.NotesCount, 4, "notes count mismatch")
}

func TestCreate(t *testing.T) {
	var f *Feature
	var inFlight []client.Folder

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "POST", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/notes/folders", "path mismatch")

		inFlight = f.Collection().Items()

		fmt.Fprint(w, `{"message": "created", "folder": {"id": 12, "name": "work", "color": "#ff0000"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f = New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Folder{{ID: 1, Name: "existing"}})

	saved, err := f.Create("work", "#ff0000")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(inFlight), 2, "in-flight collection length mismatch")
	assert.Equal(t, store.IsTempID(inFlight[0].ID), true, "the pending entry should be at the front")
	assert.Equal(t, inFlight[1].ID, int64(1), "the pre-existing folder should follow the pending entry")

	assert.Equal(t, saved.ID, int64(12), "saved id mismatch")

	items := f.Collection().Items()
	assert.Equal(t, len(items), 2, "collection length mismatch")
	assert.Equal(t, items[0].ID, int64(12), "the confirmed folder should keep the front position")

	for _, folder := range items {
		if store.IsTempID(folder.ID) {
			t.Errorf("dangling pending entry with id %d", folder.ID)
		}
	}
}

func TestCreate_failureRollsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "something went wrong"}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)

	_, err := f.Create("work", "#ff0000")

	assert.NotEqual(t, err, nil, "expected an error")
	assert.Equal(t, f.Collection().Len(), 0, "the pending entry should be rolled back")
	assert.Equal(t, len(notifier.errors), 1, "the user should be notified exactly once")
}

func TestUpdate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "PUT", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/notes/folders/1", "path mismatch")

		fmt.Fprint(w, `{"message": "updated", "folder": {"id": 1, "name": "renamed", "color": "#ff0000"}}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Folder{{ID: 1, Name: "work", Color: "#ff0000", NotesCount: 4}})

	name := "renamed"
	saved, err := f.Update(1, client.UpdateFolderPayload{Name: &name})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, saved.Name, "renamed", "name mismatch")
	assert.Equal(t, saved.NotesCount, 4, "notes count should survive an omission in the response")
}

func TestUpdate_failureRestoresPrevious(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "something went wrong"}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Folder{{ID: 1, Name: "work", Color: "#ff0000"}})

	name := "renamed"
	_, err := f.Update(1, client.UpdateFolderPayload{Name: &name})

	assert.NotEqual(t, err, nil, "expected an error")

	folder, _ := f.Collection().Get(1)
	assert.Equal(t, folder.Name, "work", "name should be rolled back")
	assert.Equal(t, len(notifier.errors), 1, "the user should be notified exactly once")
}

func TestDelete_failureRestoresCollection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "something went wrong"}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.Collection().SetAll([]client.Folder{{ID: 1, Name: "work"}, {ID: 2, Name: "home"}})

	err := f.Delete(1)

	assert.NotEqual(t, err, nil, "expected an error")
	assert.Equal(t, f.Collection().Len(), 2, "the collection should be restored")

	items := f.Collection().Items()
	assert.Equal(t, items[0].ID, int64(1), "order should be restored")
	assert.Equal(t, len(notifier.errors), 1, "the user should be notified exactly once")
}
