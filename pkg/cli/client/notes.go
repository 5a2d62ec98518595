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

// ListNotesParams are the filters for the notes list endpoint
type ListNotesParams struct {
	Page       int    `schema:"page"`
	Limit      int    `schema:"limit"`
	CategoryID *int64 `schema:"categoryId,omitempty"`
	TagID      *int64 `schema:"tagId,omitempty"`
	FolderID   *int64 `schema:"folderId,omitempty"`
	IsArchived *bool  `schema:"isArchived,omitempty"`
	Priority   string `schema:"priority,omitempty"`
	Search     string `schema:"search,omitempty"`
}

// ListNotesResp is the response from the notes list endpoint
type ListNotesResp struct {
	Notes      []Note     `json:"notes"`
	Pagination Pagination `json:"pagination"`
}

// ListNotes fetches a page of notes matching the given filters
func ListNotes(ctx context.NotectlCtx, params ListNotesParams) (ListNotesResp, error) {
	queryStr, err := encodeQuery(params)
	if err != nil {
		return ListNotesResp{}, errors.Wrap(err, "encoding params")
	}

	path := fmt.Sprintf("/api/v1/notes?%s", queryStr)
	res, err := doAuthorizedReq(ctx, "GET", path, "")
	if err != nil {
		return ListNotesResp{}, errors.Wrap(err, "making the request")
	}

	var resp ListNotesResp
	if err := decodeInto(res, &resp); err != nil {
		return ListNotesResp{}, err
	}

	return resp, nil
}

// GetNoteResp is the response from the get note endpoint
type GetNoteResp struct {
	Note Note `json:"note"`
}

// GetNote fetches a single note by id
func GetNote(ctx context.NotectlCtx, id int64) (GetNoteResp, error) {
	path := fmt.Sprintf("/api/v1/notes/%d", id)
	res, err := doAuthorizedReq(ctx, "GET", path, "")
	if err != nil {
		return GetNoteResp{}, errors.Wrap(err, "making the request")
	}

	var resp GetNoteResp
	if err := decodeInto(res, &resp); err != nil {
		return GetNoteResp{}, err
	}

	return resp, nil
}

// CreateNotePayload is a payload for creating a note
type CreateNotePayload struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CategoryID *int64     `json:"categoryId,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	ReminderAt *time.Time `json:"reminderAt,omitempty"`
}

// RespNote is a note as returned by the mutation endpoints and the pushed
// events. The tag links are maintained locally through note_tag_added and
// note_tag_removed; a payload that omits tagIds must not clear them, so the
// field is a pointer to tell omission apart from an empty list.
type RespNote struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ImageURL   *string    `json:"imageUrl"`
	VideoURL   *string    `json:"videoUrl"`
	CategoryID *int64     `json:"categoryId"`
	Priority   string     `json:"priority"`
	IsArchived bool       `json:"isArchived"`
	IsPinned   bool       `json:"isPinned"`
	ReminderAt *time.Time `json:"reminderAt"`
	UserID     int64      `json:"userId"`
	TagIDs     *[]int64   `json:"tagIds"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Note converts the response shape into a Note, carrying over the given tag
// links when the server omitted them
func (n RespNote) Note(prevTagIDs []int64) Note {
	tagIDs := prevTagIDs
	if n.TagIDs != nil {
		tagIDs = *n.TagIDs
	}

	return Note{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		ImageURL:   n.ImageURL,
		VideoURL:   n.VideoURL,
		CategoryID: n.CategoryID,
		Priority:   n.Priority,
		IsArchived: n.IsArchived,
		IsPinned:   n.IsPinned,
		ReminderAt: n.ReminderAt,
		UserID:     n.UserID,
		TagIDs:     tagIDs,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// NoteResp is the response from the note mutation endpoints
type NoteResp struct {
	Message string   `json:"message"`
	Note    RespNote `json:"note"`
}

// CreateNote creates a note in the server
func CreateNote(ctx context.NotectlCtx, payload CreateNotePayload) (NoteResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return NoteResp{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doAuthorizedReq(ctx, "POST", "/api/v1/notes", string(b))
	if err != nil {
		return NoteResp{}, errors.Wrap(err, "posting a note to the server")
	}

	var resp NoteResp
	if err := decodeInto(res, &resp); err != nil {
		return NoteResp{}, err
	}

	return resp, nil
}

// UpdateNotePayload is a partial patch for a note. Nil fields are left
// untouched by the server.
type UpdateNotePayload struct {
	Title      *string    `json:"title,omitempty"`
	Content    *string    `json:"content,omitempty"`
	CategoryID *int64     `json:"categoryId,omitempty"`
	Priority   *string    `json:"priority,omitempty"`
	IsArchived *bool      `json:"isArchived,omitempty"`
	IsPinned   *bool      `json:"isPinned,omitempty"`
	ReminderAt *time.Time `json:"reminderAt,omitempty"`
}

// UpdateNote updates a note in the server
func UpdateNote(ctx context.NotectlCtx, id int64, payload UpdateNotePayload) (NoteResp, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return NoteResp{}, errors.Wrap(err, "marshaling payload")
	}

	path := fmt.Sprintf("/api/v1/notes/%d", id)
	res, err := doAuthorizedReq(ctx, "PUT", path, string(b))
	if err != nil {
		return NoteResp{}, errors.Wrap(err, "patching a note in the server")
	}

	var resp NoteResp
	if err := decodeInto(res, &resp); err != nil {
		return NoteResp{}, err
	}

	return resp, nil
}

// DeleteNote removes a note in the server
func DeleteNote(ctx context.NotectlCtx, id int64) error {
	path := fmt.Sprintf("/api/v1/notes/%d", id)
	res, err := doAuthorizedReq(ctx, "DELETE", path, "")
	if err != nil {
		return errors.Wrap(err, "deleting a note in the server")
	}
	drainBody(res)

	return nil
}

// AddNoteTag attaches a tag to a note
func AddNoteTag(ctx context.NotectlCtx, noteID, tagID int64) error {
	path := fmt.Sprintf("/api/v1/notes/%d/tags/%d", noteID, tagID)
	res, err := doAuthorizedReq(ctx, "POST", path, "")
	if err != nil {
		return errors.Wrap(err, "adding a tag to a note")
	}
	drainBody(res)

	return nil
}

// RemoveNoteTag detaches a tag from a note
func RemoveNoteTag(ctx context.NotectlCtx, noteID, tagID int64) error {
	path := fmt.Sprintf("/api/v1/notes/%d/tags/%d", noteID, tagID)
	res, err := doAuthorizedReq(ctx, "DELETE", path, "")
	if err != nil {
		return errors.Wrap(err, "removing a tag from a note")
	}
	drainBody(res)

	return nil
}
