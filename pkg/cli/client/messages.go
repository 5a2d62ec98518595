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

// ListMessagesParams are the filters for the chat messages list endpoint
type ListMessagesParams struct {
	Page  int `schema:"page"`
	Limit int `schema:"limit"`
}

// ListMessagesResp is the response from the chat messages list endpoint
type ListMessagesResp struct {
	Messages   []Message  `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

// ListMessages fetches a page of messages of the given chat
func ListMessages(ctx context.NotectlCtx, chatID int64, params ListMessagesParams) (ListMessagesResp, error) {
	queryStr, err := encodeQuery(params)
	if err != nil {
		return ListMessagesResp{}, errors.Wrap(err, "encoding params")
	}

	path := fmt.Sprintf("/api/v1/messages/%d?%s", chatID, queryStr)
	res, err := doAuthorizedReq(ctx, "GET", path, "")
	if err != nil {
		return ListMessagesResp{}, errors.Wrap(err, "making the request")
	}

	var resp ListMessagesResp
	if err := decodeInto(res, &resp); err != nil {
		return ListMessagesResp{}, err
	}

	return resp, nil
}

// MarkChatRead marks every message of the given chat as read
func MarkChatRead(ctx context.NotectlCtx, chatID int64) error {
	path := fmt.Sprintf("/api/v1/messages/%d/read", chatID)
	res, err := doAuthorizedReq(ctx, "PUT", path, "")
	if err != nil {
		return errors.Wrap(err, "marking a chat as read")
	}
	drainBody(res)

	return nil
}
