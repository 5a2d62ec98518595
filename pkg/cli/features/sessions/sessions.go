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

// Package sessions drives the login session collection. Revocation events can
// arrive for sessions already gone locally; applying them is idempotent. A
// revocation of every session forces the current one out as well.
package sessions

import (
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// Feature owns the session collection
type Feature struct {
	ctx      context.NotectlCtx
	notifier ui.Notifier
	col      *store.Collection[client.Session]

	// onForcedLogout runs when the server revokes the current session
	onForcedLogout func()

	subs []socket.Subscription
}

// New returns a session feature. onForcedLogout, if not nil, runs when a
// pushed event invalidates the current session.
func New(ctx context.NotectlCtx, notifier ui.Notifier, onForcedLogout func()) *Feature {
	return &Feature{
		ctx:            ctx,
		notifier:       notifier,
		col:            store.NewCollection[client.Session](),
		onForcedLogout: onForcedLogout,
	}
}

// Collection returns the backing collection
func (f *Feature) Collection() *store.Collection[client.Session] {
	return f.col
}

// Fetch replaces the collection with the server's session list
func (f *Feature) Fetch() error {
	resp, err := client.ListSessions(f.ctx)
	if err != nil {
		return errors.Wrap(err, "fetching sessions")
	}

	f.col.SetAll(resp.Sessions)

	return nil
}

// Revoke revokes a session optimistically and restores the collection on
// failure
func (f *Feature) Revoke(id int64) error {
	session, ok := f.col.Get(id)
	if !ok {
		return errors.Errorf("session %d not found", id)
	}
	if session.IsCurrent {
		return errors.New("cannot revoke the current session. Use logout instead")
	}

	snapshot := f.col.Items()
	f.col.Remove(id)

	if err := client.RevokeSession(f.ctx, id); err != nil {
		f.col.SetAll(snapshot)
		f.notifier.Errorf("failed to revoke session: %s\n", err)
		return errors.Wrap(err, "revoking session")
	}

	return nil
}

// RevokeOthers revokes every session except the current one
func (f *Feature) RevokeOthers() error {
	snapshot := f.col.Items()

	var kept []client.Session
	for _, s := range snapshot {
		if s.IsCurrent {
			kept = append(kept, s)
		}
	}
	f.col.SetAll(kept)

	if err := client.RevokeOtherSessions(f.ctx); err != nil {
		f.col.SetAll(snapshot)
		f.notifier.Errorf("failed to revoke other sessions: %s\n", err)
		return errors.Wrap(err, "revoking other sessions")
	}

	return nil
}

// Mount subscribes the feature to the pushed session events
func (f *Feature) Mount(bus *socket.Bus) {
	f.subs = []socket.Subscription{
		bus.Subscribe(socket.EventSessionRevoked, f.onRevoked),
		bus.Subscribe(socket.EventAllSessionsRevoked, f.onAllRevoked),
	}
}

// Unmount cancels the feature's subscriptions
func (f *Feature) Unmount() {
	for _, s := range f.subs {
		s.Cancel()
	}
	f.subs = nil
}

func (f *Feature) onRevoked(payload interface{}) {
	p, ok := payload.(socket.SessionRevokedPayload)
	if !ok {
		return
	}

	session, ok := f.col.Get(p.SessionID)
	f.col.ApplyDeleted(p.SessionID)

	if ok && session.IsCurrent {
		f.forceLogout()
	}
}

func (f *Feature) onAllRevoked(payload interface{}) {
	f.col.SetAll(nil)
	f.forceLogout()
}

func (f *Feature) forceLogout() {
	f.notifier.Errorf("your session was revoked from another device. Please log in again.\n")

	if f.onForcedLogout != nil {
		f.onForcedLogout()
	}
}
