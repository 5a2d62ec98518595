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

// RespCategory is a category as returned by the mutation endpoints. The
// derived notesCount is optional there; the server does not recompute it for
// every mutation and the client preserves its local copy when it is absent.
type RespCategory struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Icon       string    `json:"icon"`
	NotesCount *int      `json:"notesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Category converts the response shape into a Category, carrying over the
// given count when the server omitted it
func (c RespCategory) Category(prevCount int) Category {
	count := prevCount
	if c.NotesCount != nil {
		count = *c.NotesCount
	}

	return Category{
		ID:         c.ID,
		Name:       c.Name,
		Color:      c.Color,
		Icon:       c.Icon,
		NotesCount: count,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ListCategoriesResp is the response from the categories list endpoint
type ListCategoriesResp struct {
	Categories []Category `json:"categories"`
}

// ListCategories fetches all categories of the current user
func ListCategories(ctx context.NotectlCtx) (ListCategoriesResp, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/api/v1/notes/categories", "")
	if err != nil {
		return ListCategoriesResp{}, errors.Wrap(err, "making the request")
	}

	var resp ListCategoriesResp
	if err := decodeInto(res, &resp); err != nil {
		return ListCategoriesResp{}, err
	}

	return resp, nil
}

// CreateCategoryPayload is a payload for creating a category
type CreateCategoryPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CategoryResp is the response from the category mutation endpoints
type CategoryResp struct {
	Message  string       `json:"message"`
	Category RespCategory `json:"category"`
}

// CreateCategory creates a new category in the server
func CreateCategory(ctx context.NotectlCtx, payload CreateCategoryPayload) (CategoryResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return CategoryResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/notes/categories", string(b))
	if err != nil {
		return CategoryResp{}, errors.Wrap(err, "posting a category to the server")
	}

	var resp CategoryResp
	if err := decodeInto(res, &resp); err != nil {
		return CategoryResp{}, err
	}

	return resp, nil
}

// UpdateCategoryPayload is a partial patch for a category
type UpdateCategoryPayload struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// UpdateCategory updates a category in the server
func UpdateCategory(ctx context.NotectlCtx, id int64, payload UpdateCategoryPayload) (CategoryResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return CategoryResp{}, errors.Wrap(err, "marshaling payload")
	}

	path := fmt.Sprintf("/api/v1/notes/categories/%d", id)
	res, err := doAuthorizedReq(ctx, "PUT", path, string(b))
	if err != nil {
		return CategoryResp{}, errors.Wrap(err, "patching a category in the server")
	}

	var resp CategoryResp
	if err := decodeInto(res, &resp); err != nil {
		return CategoryResp{}, err
	}

	return resp, nil
}

// DeleteCategory deletes a category in the server
func DeleteCategory(ctx context.NotectlCtx, id int64) error {
	path := fmt.Sprintf("/api/v1/notes/categories/%d", id)
	res, err := doAuthorizedReq(ctx, "DELETE", path, "")
	if err != nil {
		return errors.Wrap(err, "deleting a category in the server")
	}
	drainBody(res)

	return nil
}
