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
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
)

// RespTag is a tag as returned by the mutation endpoints, with the derived
// notesCount optional
type RespTag struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	NotesCount *int      `json:"notesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Tag converts the response shape into a Tag, carrying over the given count
// when the server omitted it
func (t RespTag) Tag(prevCount int) Tag {
	count := prevCount
	if t.NotesCount != nil {
		count = *t.NotesCount
	}

	return Tag{
		ID:         t.ID,
		Name:       t.Name,
		Color:      t.Color,
		NotesCount: count,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ListTagsResp is the response from the tags list endpoint
type ListTagsResp struct {
	Tags []Tag `json:"tags"`
}

// ListTags fetches all tags of the current user
func ListTags(ctx context.NotectlCtx) (ListTagsResp, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/api/v1/notes/tags", "")
	if err != nil {
		return ListTagsResp{}, errors.Wrap(err, "making the request")
	}

	var resp ListTagsResp
	if err := decodeInto(res, &resp); err != nil {
		return ListTagsResp{}, err
	}

	return resp, nil
}

// CreateTagPayload is a payload for creating a tag
type CreateTagPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagResp is the response from the tag mutation endpoints
type TagResp struct {
	Message string  `json:"message"`
	Tag     RespTag `json:"tag"`
}

// CreateTag creates a new tag in the server
func CreateTag(ctx context.NotectlCtx, payload CreateTagPayload) (TagResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return TagResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/notes/tags", string(b))
	if err != nil {
		return TagResp{}, errors.Wrap(err, "posting a tag to the server")
	}

	var resp TagResp
	if err := decodeInto(res, &resp); err != nil {
		return TagResp{}, err
	}

	return resp, nil
}

// UpdateTagPayload is a partial patch for a tag
type UpdateTagPayload struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// UpdateTag updates a tag in the server
func UpdateTag(ctx context.NotectlCtx, id int64, payload UpdateTagPayload) (TagResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return TagResp{}, errors.Wrap(err, "marshaling payload")
	}

	path := fmt.Sprintf("/api/v1/notes/tags/%d", id)
	res, err := doAuthorizedReq(ctx, "PUT", path, string(b))
	if err != nil {
		return TagResp{}, errors.Wrap(err, "patching a tag in the server")
	}

	var resp TagResp
	if err := decodeInto(res, &resp); err != nil {
		return TagResp{}, err
	}

	return resp, nil
}

// DeleteTag deletes a tag in the server
func DeleteTag(ctx context.NotectlCtx, id int64) error {
	path := fmt.Sprintf("/api/v1/notes/tags/%d", id)
	res, err := doAuthorizedReq(ctx, "DELETE", path, "")
	if err != nil {
		return errors.Wrap(err, "deleting a tag in the server")
	}
	drainBody(res)

	return nil
}
