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

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/client"
)

var upgrader = websocket.Upgrader{}

func TestClient_connectsAndDelivers(t *testing.T) {
	authHeader := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader <- r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrading: %s", err)
			return
		}
		defer conn.Close()

		err = conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "category_created", "data": {"id": 8, "name": "work"}}`))
		if err != nil {
			t.Errorf("writing frame: %s", err)
			return
		}

		// keep the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	endpoint := strings.Replace(server.URL, "http://", "ws://", 1)
	c := New(endpoint, "mock-token")
	defer c.Close()

	received := make(chan interface{}, 1)
	sub := c.Bus().Subscribe(EventCategoryCreated, func(payload interface{}) {
		received <- payload
	})
	defer sub.Cancel()

	select {
	case header := <-authHeader:
		assert.Equal(t, header, "Bearer mock-token", "authorization header mismatch")
	case <-time.After(5 * time.Second):
		t.Fatal("the client never dialed the server")
	}

	select {
	case payload := <-received:
		category, ok := payload.(client.RespCategory)
		if !ok {
			t.Fatalf("payload type mismatch: %T", payload)
		}
		assert.Equal(t, category.ID, int64(8), "category id mismatch")
		assert.Equal(t, category.Name, "work", "category name mismatch")
	case <-time.After(5 * time.Second):
		t.Fatal("the pushed event never reached the handler")
	}
}

func TestClient_malformedFrameDoesNotStopStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrading: %s", err)
			return
		}
		defer conn.Close()

		frames := []string{
			`{"event":`,
			`{"event": "note_exploded", "data": {}}`,
			`{"event": "tag_created", "data": {"id": 0, "name": "invalid"}}`,
			`{"event": "tag_created", "data": {"id": 4, "name": "chores"}}`,
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				t.Errorf("writing frame: %s", err)
				return
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	endpoint := strings.Replace(server.URL, "http://", "ws://", 1)
	c := New(endpoint, "mock-token")
	defer c.Close()

	received := make(chan interface{}, 1)
	sub := c.Bus().Subscribe(EventTagCreated, func(payload interface{}) {
		received <- payload
	})
	defer sub.Cancel()

	select {
	case payload := <-received:
		tag, ok := payload.(client.RespTag)
		if !ok {
			t.Fatalf("payload type mismatch: %T", payload)
		}
		assert.Equal(t, tag.ID, int64(4), "tag id mismatch")
	case <-time.After(5 * time.Second):
		t.Fatal("the valid frame after the bad ones never arrived")
	}
}

func TestClient_lastCancelDisconnects(t *testing.T) {
	closed := make(chan struct{}, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrading: %s", err)
			return
		}
		defer conn.Close()

		if _, _, err := conn.ReadMessage(); err != nil {
			closed <- struct{}{}
		}
	}))
	defer server.Close()

	endpoint := strings.Replace(server.URL, "http://", "ws://", 1)
	c := New(endpoint, "")
	defer c.Close()

	sub := c.Bus().Subscribe(EventNoteCreated, func(interface{}) {})

	// wait until the lazy connection is up before cancelling
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.mu.Lock()
		connected := c.conn != nil
		c.mu.Unlock()
		if connected {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("the client never connected")
		}
		time.Sleep(10 * time.Millisecond)
	}

	sub.Cancel()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("cancelling the last subscription did not close the connection")
	}
}
