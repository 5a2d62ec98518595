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

// Package messages drives the chat message collection. One chat is open at a
// time; pushed messages for other chats only bump their unread counters.
package messages

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// GroupWindow is the maximum gap between two consecutive messages of the same
// sender for them to render as one group
const GroupWindow = 5 * time.Minute

// DefaultPageLimit is the page size for a chat's message history
const DefaultPageLimit = 50

// Feature owns the message collection of the open chat and the unread
// counters of the rest
type Feature struct {
	ctx      context.NotectlCtx
	notifier ui.Notifier
	col      *store.Collection[client.Message]
	pager    *store.Pager

	mu         sync.Mutex
	activeChat int64
	unread     map[int64]int
	statuses   map[int64]string

	subs []socket.Subscription
}

// New returns a message feature with no chat open
func New(ctx context.NotectlCtx, notifier ui.Notifier) *Feature {
	return &Feature{
		ctx:      ctx,
		notifier: notifier,
		col:      store.NewCollection[client.Message](),
		pager:    store.NewPager(DefaultPageLimit),
		unread:   map[int64]int{},
		statuses: map[int64]string{},
	}
}

// Collection returns the backing collection of the open chat
func (f *Feature) Collection() *store.Collection[client.Message] {
	return f.col
}

// Pager returns the pagination window of the open chat
func (f *Feature) Pager() *store.Pager {
	return f.pager
}

// ActiveChat returns the id of the open chat, or zero when none is open
func (f *Feature) ActiveChat() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.activeChat
}

// Open switches to the given chat and fetches its first page
func (f *Feature) Open(chatID int64) error {
	f.mu.Lock()
	f.activeChat = chatID
	f.mu.Unlock()

	f.pager.ResetToFirstPage()

	return f.Fetch()
}

// Fetch loads the current page of the open chat, discarding a response that
// belongs to a superseded fetch
func (f *Feature) Fetch() error {
	f.mu.Lock()
	chatID := f.activeChat
	f.mu.Unlock()

	if chatID == 0 {
		return errors.New("no chat is open")
	}

	token := f.pager.Begin()

	resp, err := client.ListMessages(f.ctx, chatID, client.ListMessagesParams{
		Page:  f.pager.Page(),
		Limit: f.pager.Limit(),
	})
	if err != nil {
		f.pager.Fail(token)
		return errors.Wrap(err, "fetching messages")
	}

	p := resp.Pagination
	if !f.pager.Complete(token, p.Page, p.Limit, p.Total, p.TotalPages) {
		return nil
	}

	f.col.SetAll(resp.Messages)

	return nil
}

// MarkRead marks the open chat as read and clears its unread counter
func (f *Feature) MarkRead() error {
	f.mu.Lock()
	chatID := f.activeChat
	f.mu.Unlock()

	if chatID == 0 {
		return errors.New("no chat is open")
	}

	if err := client.MarkChatRead(f.ctx, chatID); err != nil {
		f.notifier.Errorf("failed to mark chat as read: %s\n", err)
		return errors.Wrap(err, "marking chat as read")
	}

	f.mu.Lock()
	delete(f.unread, chatID)
	f.mu.Unlock()

	return nil
}

// Unread returns the unread counter of the given chat
func (f *Feature) Unread(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.unread[chatID]
}

// TotalUnread returns the unread counter across every chat
func (f *Feature) TotalUnread() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total int
	for _, n := range f.unread {
		total += n
	}

	return total
}

// Status returns the last known presence of the given user
func (f *Feature) Status(userID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.statuses[userID]
}

// Mount subscribes the feature to the pushed chat events
func (f *Feature) Mount(bus *socket.Bus) {
	f.subs = []socket.Subscription{
		bus.Subscribe(socket.EventMessageCreated, f.onMessageCreated),
		bus.Subscribe(socket.EventUserStatusUpdated, f.onUserStatus),
	}
}

// Unmount cancels the feature's subscriptions
func (f *Feature) Unmount() {
	for _, s := range f.subs {
		s.Cancel()
	}
	f.subs = nil
}

func (f *Feature) onMessageCreated(payload interface{}) {
	m, ok := payload.(client.Message)
	if !ok {
		return
	}

	f.mu.Lock()
	active := f.activeChat
	if m.ChatID != active {
		f.unread[m.ChatID]++
	}
	f.mu.Unlock()

	if m.ChatID != active {
		return
	}

	f.col.ApplyCreated(m, nil)
}

func (f *Feature) onUserStatus(payload interface{}) {
	p, ok := payload.(socket.UserStatusPayload)
	if !ok {
		return
	}

	f.mu.Lock()
	f.statuses[p.UserID] = p.Status
	f.mu.Unlock()
}

// Group splits messages into render groups: consecutive messages from the
// same sender closer together than the window collapse into one group.
func Group(msgs []client.Message, window time.Duration) [][]client.Message {
	var groups [][]client.Message

	for _, m := range msgs {
		if len(groups) == 0 {
			groups = append(groups, []client.Message{m})
			continue
		}

		last := groups[len(groups)-1]
		prev := last[len(last)-1]
		if m.SenderID == prev.SenderID && m.CreatedAt.Sub(prev.CreatedAt) < window {
			groups[len(groups)-1] = append(last, m)
			continue
		}

		groups = append(groups, []client.Message{m})
	}

	return groups
}
