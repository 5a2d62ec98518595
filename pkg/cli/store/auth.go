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

package store

import (
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/consts"
	"github.com/vanminhtruong/notectl/pkg/cli/database"
)

// Auth holds the current user and token. The values are cached in memory and
// persisted through the system table so the session survives restarts.
type Auth struct {
	mu    sync.RWMutex
	user  *client.User
	token string
}

// NewAuth returns an empty auth state
func NewAuth() *Auth {
	return &Auth{}
}

// User returns the cached current user
func (a *Auth) User() (client.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.user == nil {
		return client.User{}, false
	}
	return *a.user, true
}

// Token returns the cached bearer token
func (a *Auth) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.token
}

// SetSession stores the user and token in memory and in the system table
func (a *Auth) SetSession(db *database.DB, user client.User, token string) error {
	b, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "marshaling user")
	}

	if err := database.UpsertSystem(db, consts.SystemToken, token); err != nil {
		return errors.Wrap(err, "saving token")
	}
	if err := database.UpsertSystem(db, consts.SystemUser, string(b)); err != nil {
		return errors.Wrap(err, "saving user")
	}

	a.mu.Lock()
	a.user = &user
	a.token = token
	a.mu.Unlock()

	return nil
}

// Restore loads the session persisted in the system table, if any
func (a *Auth) Restore(db *database.DB) error {
	var token string
	err := database.GetSystem(db, consts.SystemToken, &token)
	if err == sql.ErrNoRows {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "finding token")
	}

	var userJSON string
	var user *client.User
	err = database.GetSystem(db, consts.SystemUser, &userJSON)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "finding user")
	}
	if err == nil {
		var u client.User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return errors.Wrap(err, "unmarshaling user")
		}
		user = &u
	}

	a.mu.Lock()
	a.token = token
	a.user = user
	a.mu.Unlock()

	return nil
}

// Clear tears the session down, in memory and in the system table. Called on
// logout and whenever the server rejects the token.
func (a *Auth) Clear(db *database.DB) error {
	if err := database.DeleteSystem(db, consts.SystemToken); err != nil {
		return errors.Wrap(err, "deleting token")
	}
	if err := database.DeleteSystem(db, consts.SystemUser); err != nil {
		return errors.Wrap(err, "deleting user")
	}

	a.mu.Lock()
	a.user = nil
	a.token = ""
	a.mu.Unlock()

	return nil
}
