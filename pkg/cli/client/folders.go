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

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
)

// ListFoldersResp is the response from the folders list endpoint
type ListFoldersResp struct {
	Folders []Folder `json:"folders"`
}

// ListFolders fetches all folders of the current user
func ListFolders(ctx context.NotectlCtx) (ListFoldersResp, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/api/v1/notes/folders", "")
	if err != nil {
		return ListFoldersResp{}, errors.Wrap(err, "making the request")
	}

	var resp ListFoldersResp
	if err := decodeInto(res, &resp); err != nil {
		return ListFoldersResp{}, err
	}

	return resp, nil
}

// CreateFolderPayload is a payload for creating a folder
type CreateFolderPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// RespFolder is a folder as returned by the mutation endpoints. The note
// count is computed server-side and the mutation responses can omit it, so
// the field is a pointer to tell omission apart from zero.
type RespFolder struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	NotesCount *int   `json:"notesCount"`
}

// Folder converts the response shape into a Folder, carrying over the given
// count when the server omitted it
func (f RespFolder) Folder(prevCount int) Folder {
	count := prevCount
	if f.NotesCount != nil {
		count = *f.NotesCount
	}

	return Folder{ID: f.ID, Name: f.Name, Color: f.Color, NotesCount: count}
}

// FolderResp is the response from the folder mutation endpoints
type FolderResp struct {
	Message string     `json:"message"`
	Folder  RespFolder `json:"folder"`
}

// CreateFolder creates a new folder in the server
func CreateFolder(ctx context.NotectlCtx, payload CreateFolderPayload) (FolderResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return FolderResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/notes/folders", string(b))
	if err != nil {
		return FolderResp{}, errors.Wrap(err, "posting a folder to the server")
	}

	var resp FolderResp
	if err := decodeInto(res, &resp); err != nil {
		return FolderResp{}, err
	}

	return resp, nil
}

// UpdateFolderPayload is a partial patch for a folder
type UpdateFolderPayload struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// UpdateFolder updates a folder in the server
func UpdateFolder(ctx context.NotectlCtx, id int64, payload UpdateFolderPayload) (FolderResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return FolderResp{}, errors.Wrap(err, "marshaling payload")
	}

	path := fmt.Sprintf("/api/v1/notes/folders/%d", id)
	res, err := doAuthorizedReq(ctx, "PUT", path, string(b))
	if err != nil {
		return FolderResp{}, errors.Wrap(err, "patching a folder in the server")
	}

	var resp FolderResp
	if err := decodeInto(res, &resp); err != nil {
		return FolderResp{}, err
	}

	return resp, nil
}

// DeleteFolder deletes a folder in the server
func DeleteFolder(ctx context.NotectlCtx, id int64) error {
	path := fmt.Sprintf("/api/v1/notes/folders/%d", id)
	res, err := doAuthorizedReq(ctx, "DELETE", path, "")
	if err != nil {
		return errors.Wrap(err, "deleting a folder in the server")
	}
	drainBody(res)

	return nil
}
