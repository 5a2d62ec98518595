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

package socket

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
)

// Names of the server-pushed events
const (
	EventCategoryCreated    = "category_created"
	EventCategoryUpdated    = "category_updated"
	EventCategoryDeleted    = "category_deleted"
	EventCategoriesReorder  = "categories_reorder_needed"
	EventTagCreated         = "tag_created"
	EventTagUpdated         = "tag_updated"
	EventTagDeleted         = "tag_deleted"
	EventNoteCreated        = "note_created"
	EventNoteUpdated        = "note_updated"
	EventNoteDeleted        = "note_deleted"
	EventNoteTagAdded       = "note_tag_added"
	EventNoteTagRemoved     = "note_tag_removed"
	EventSessionRevoked     = "session_revoked"
	EventAllSessionsRevoked = "all_sessions_revoked"
	EventUserStatusUpdated  = "user_status_updated"
	EventMessageCreated     = "message_created"
	EventCallOffer          = "call_offer"
	EventCallAnswer         = "call_answer"
	EventCallEnded          = "call_ended"
)

// ErrUnknownEvent is returned for an event name outside the known set
var ErrUnknownEvent = errors.New("unknown event")

// DeletedPayload references a removed entity by id
type DeletedPayload struct {
	ID int64 `json:"id"`
}

// ReorderPayload signals that the server-side ordering or derived counts
// changed in a way not expressible as an incremental delta. The designed
// response is a full refetch.
type ReorderPayload struct{}

// NoteTagPayload links a note and a tag
type NoteTagPayload struct {
	NoteID int64 `json:"noteId"`
	TagID  int64 `json:"tagId"`
}

// SessionRevokedPayload references a revoked session
type SessionRevokedPayload struct {
	SessionID int64 `json:"sessionId"`
}

// AllSessionsRevokedPayload signals that every session of the user is gone
type AllSessionsRevokedPayload struct{}

// UserStatusPayload carries a presence change of another user
type UserStatusPayload struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// frame is the wire shape of a pushed event
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Decode parses and validates the payload of the named event into its typed
// form. Payloads are checked at this boundary so no handler downstream has to
// duck-type the data.
func Decode(name string, data json.RawMessage) (interface{}, error) {
	switch name {
	case EventCategoryCreated, EventCategoryUpdated:
		var p client.RespCategory
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.ID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive id %d", name, p.ID)
		}
		return p, nil
	case EventTagCreated, EventTagUpdated:
		var p client.RespTag
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.ID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive id %d", name, p.ID)
		}
		return p, nil
	case EventNoteCreated, EventNoteUpdated:
		var p client.RespNote
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.ID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive id %d", name, p.ID)
		}
		return p, nil
	case EventCategoryDeleted, EventTagDeleted, EventNoteDeleted:
		var p DeletedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.ID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive id %d", name, p.ID)
		}
		return p, nil
	case EventCategoriesReorder:
		return ReorderPayload{}, nil
	case EventNoteTagAdded, EventNoteTagRemoved:
		var p NoteTagPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.NoteID <= 0 || p.TagID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive ids", name)
		}
		return p, nil
	case EventSessionRevoked:
		var p SessionRevokedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.SessionID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive id %d", name, p.SessionID)
		}
		return p, nil
	case EventAllSessionsRevoked:
		return AllSessionsRevokedPayload{}, nil
	case EventUserStatusUpdated:
		var p UserStatusPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		return p, nil
	case EventMessageCreated:
		var p client.Message
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrapf(err, "unmarshaling %s payload", name)
		}
		if p.ID <= 0 {
			return nil, errors.Errorf("%s payload with nonpositive id %d", name, p.ID)
		}
		return p, nil
	case EventCallOffer, EventCallAnswer, EventCallEnded:
		// call signaling has no terminal rendition; the raw payload is
		// passed through for completeness
		return data, nil
	}

	return nil, errors.Wrap(ErrUnknownEvent, name)
}
