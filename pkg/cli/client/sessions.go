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

package client

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
)

// ListSessionsResp is the response from the sessions list endpoint
type ListSessionsResp struct {
	Sessions []Session `json:"sessions"`
}

// ListSessions fetches the active sessions of the current user
func ListSessions(ctx context.NotectlCtx) (ListSessionsResp, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/api/v1/sessions", "")
	if err != nil {
		return ListSessionsResp{}, errors.Wrap(err, "making the request")
	}

	var resp ListSessionsResp
	if err := decodeInto(res, &resp); err != nil {
		return ListSessionsResp{}, err
	}

	return resp, nil
}

// RevokeSession revokes a session in the server. Revoking the current session
// is equivalent to a logout.
func RevokeSession(ctx context.NotectlCtx, id int64) error {
	path := fmt.Sprintf("/api/v1/sessions/%d", id)
	res, err := doAuthorizedReq(ctx, "DELETE", path, "")
	if err != nil {
		return errors.Wrap(err, "revoking a session in the server")
	}
	drainBody(res)

	return nil
}

// RevokeOtherSessions revokes every session of the user except the current one
func RevokeOtherSessions(ctx context.NotectlCtx) error {
	res, err := doAuthorizedReq(ctx, "DELETE", "/api/v1/sessions", "")
	if err != nil {
		return errors.Wrap(err, "revoking sessions in the server")
	}
	drainBody(res)

	return nil
}
