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

package messages

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
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
	return context.NotectlCtx{
		APIEndpoint: endpoint,
		Token:       "someToken",
	}
}

func TestOpen(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/api/v1/messages/3", "path mismatch")

		fmt.Fprint(w, `{
			"messages": [{"id": 1, "chatId": 3, "senderId": 9, "content": "hey"}],
			"pagination": {"total": 1, "page": 1, "limit": 50, "totalPages": 1}
		}`)
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)

	if err := f.Open(3); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, f.ActiveChat(), int64(3), "active chat mismatch")
	assert.Equal(t, f.Collection().Len(), 1, "collection length mismatch")
}

func TestOnMessageCreated(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)
	f.mu.Lock()
	f.activeChat = 3
	f.mu.Unlock()

	f.onMessageCreated(client.Message{ID: 1, ChatID: 3, SenderID: 9, Content: "hey"})
	f.onMessageCreated(client.Message{ID: 2, ChatID: 4, SenderID: 9, Content: "other chat"})
	f.onMessageCreated(client.Message{ID: 3, ChatID: 4, SenderID: 9, Content: "other chat again"})

	assert.Equal(t, f.Collection().Len(), 1, "only the open chat's message should land in the collection")
	assert.Equal(t, f.Unread(4), 2, "unread counter mismatch")
	assert.Equal(t, f.Unread(3), 0, "the open chat should not accumulate unread")
	assert.Equal(t, f.TotalUnread(), 2, "total unread mismatch")
}

func TestOnMessageCreated_duplicateDropped(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)
	f.mu.Lock()
	f.activeChat = 3
	f.mu.Unlock()

	f.onMessageCreated(client.Message{ID: 1, ChatID: 3, SenderID: 9, Content: "hey"})
	f.onMessageCreated(client.Message{ID: 1, ChatID: 3, SenderID: 9, Content: "hey"})

	assert.Equal(t, f.Collection().Len(), 1, "a duplicate event should be dropped")
}

func TestMarkRead(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, "PUT", "method mismatch")
		assert.Equal(t, r.URL.Path, "/api/v1/messages/4/read", "path mismatch")
	}))
	defer ts.Close()

	notifier := &recordingNotifier{}
	f := New(newTestCtx(ts.URL), notifier)
	f.mu.Lock()
	f.activeChat = 4
	f.unread[4] = 3
	f.mu.Unlock()

	if err := f.MarkRead(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, f.Unread(4), 0, "the unread counter should be cleared")
}

func TestOnUserStatus(t *testing.T) {
	notifier := &recordingNotifier{}
	f := New(newTestCtx("http://localhost:0"), notifier)

	f.onUserStatus(socket.UserStatusPayload{UserID: 9, Status: "online"})
	assert.Equal(t, f.Status(9), "online", "status mismatch")

	f.onUserStatus(socket.UserStatusPayload{UserID: 9, Status: "offline"})
	assert.Equal(t, f.Status(9), "offline", "status mismatch after update")
}

func TestGroup(t *testing.T) {
	base := time.Date(2023, 11, 14, 22, 0, 0, 0, time.UTC)

	msgs := []client.Message{
		{ID: 1, SenderID: 9, CreatedAt: base},
		{ID: 2, SenderID: 9, CreatedAt: base.Add(time.Minute)},
		{ID: 3, SenderID: 9, CreatedAt: base.Add(10 * time.Minute)},
		{ID: 4, SenderID: 7, CreatedAt: base.Add(11 * time.Minute)},
		{ID: 5, SenderID: 7, CreatedAt: base.Add(12 * time.Minute)},
	}

	groups := Group(msgs, GroupWindow)

	assert.Equal(t, len(groups), 3, "group count mismatch")
	assert.Equal(t, len(groups[0]), 2, "messages within the window should collapse")
	assert.Equal(t, len(groups[1]), 1, "a gap beyond the window should split the group")
	assert.Equal(t, len(groups[2]), 2, "a sender change should split the group")
}

func TestGroup_empty(t *testing.T) {
	groups := Group(nil, GroupWindow)

	assert.Equal(t, len(groups), 0, "no messages should yield no groups")
}
