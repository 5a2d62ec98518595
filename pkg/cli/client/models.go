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

import "time"

// Note priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Note represents a note as seen by the client. Server-assigned ids are
// positive; a negative id marks a pending optimistic entry that has not been
// acknowledged yet.
type Note struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ImageURL   *string    `json:"imageUrl,omitempty"`
	VideoURL   *string    `json:"videoUrl,omitempty"`
	CategoryID *int64     `json:"categoryId"`
	Priority   string     `json:"priority"`
	IsArchived bool       `json:"isArchived"`
	IsPinned   bool       `json:"isPinned"`
	ReminderAt *time.Time `json:"reminderAt"`
	UserID     int64      `json:"userId"`
	TagIDs     []int64    `json:"tagIds,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// EntityID returns the identity of the note
func (n Note) EntityID() int64 { return n.ID }

// Category is a note category. NotesCount is derived on the server and is
// never computed locally.
type Category struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Icon       string    `json:"icon"`
	NotesCount int       `json:"notesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EntityID returns the identity of the category
func (c Category) EntityID() int64 { return c.ID }

// Tag is a note tag
type Tag struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	NotesCount int       `json:"notesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EntityID returns the identity of the tag
func (t Tag) EntityID() int64 { return t.ID }

// Folder is a note folder
type Folder struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	NotesCount int    `json:"notesCount"`
}

// EntityID returns the identity of the folder
func (f Folder) EntityID() int64 { return f.ID }

// Session is an active login session of the current user
type Session struct {
	ID           int64     `json:"id"`
	Device       string    `json:"device"`
	Browser      string    `json:"browser"`
	Location     string    `json:"location"`
	IsCurrent    bool      `json:"isCurrent"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// EntityID returns the identity of the session
func (s Session) EntityID() int64 { return s.ID }

// User is the current user's profile
type User struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
}

// Message is a chat message
type Message struct {
	ID        int64      `json:"id"`
	ChatID    int64      `json:"chatId"`
	SenderID  int64      `json:"senderId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

// EntityID returns the identity of the message
func (m Message) EntityID() int64 { return m.ID }

// Pagination is the windowing information for a list response. TotalPages is
// authoritative; the client does not compute it.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}
