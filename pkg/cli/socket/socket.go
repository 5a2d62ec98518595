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

// Package socket provides the client for the server's pushed events. The
// connection is lazily established when the first subscription appears and
// torn down when the last one is cancelled. An unavailable socket degrades to
// no realtime updates; nothing REST-driven depends on it.
package socket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/log"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Client owns the websocket connection and feeds decoded events into its bus
type Client struct {
	endpoint string
	token    string

	bus *Bus

	mu      sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}
	running bool
}

// New returns a client for the given websocket endpoint. The bus it exposes
// drives the connection lifecycle.
func New(endpoint, token string) *Client {
	c := &Client{
		endpoint: endpoint,
		token:    token,
	}
	c.bus = NewBus(c.start, c.stop)

	return c
}

// Bus returns the subscription surface of the client
func (c *Client) Bus() *Bus {
	return c.bus
}

func (c *Client) start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.run(done)
}

func (c *Client) stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// Close tears the connection down regardless of live subscriptions
func (c *Client) Close() {
	c.stop()
}

func (c *Client) dial() (*websocket.Conn, error) {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.endpoint, header)
	if err != nil {
		return nil, errors.Wrap(err, "dialing the socket endpoint")
	}

	return conn, nil
}

// run keeps a connection alive until done is closed, reconnecting with capped
// backoff after failures
func (c *Client) run(done chan struct{}) {
	delay := reconnectBaseDelay

	for {
		select {
		case <-done:
			return
		default:
		}

		conn, err := c.dial()
		if err != nil {
			log.Debug("socket unavailable: %s\n", err)

			select {
			case <-done:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		delay = reconnectBaseDelay

		c.mu.Lock()
		if !c.running {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()

		c.readLoop(conn, done)
	}
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
			default:
				log.Debug("socket read failed: %s\n", err)
			}
			conn.Close()
			return
		}

		c.dispatch(message)
	}
}

// dispatch parses one frame and publishes its decoded payload. Malformed
// frames and unknown events are dropped; a bad frame must not take the
// stream down.
func (c *Client) dispatch(message []byte) {
	var f frame
	if err := json.Unmarshal(message, &f); err != nil {
		log.Debug("dropping a malformed socket frame: %s\n", err)
		return
	}

	payload, err := Decode(f.Event, f.Data)
	if err != nil {
		if errors.Cause(err) != ErrUnknownEvent {
			log.Debug("dropping an invalid %s payload: %s\n", f.Event, err)
		}
		return
	}

	c.bus.Publish(f.Event, payload)
}
