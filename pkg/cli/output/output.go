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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/features/messages"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
)

const timeFormat = "Jan 2, 2006 3:04pm (MST)"

// NoteInfo prints a note's metadata and content
func NoteInfo(note client.Note) {
	log.Infof("title: %s\n", note.Title)
	if note.CategoryID != nil {
		log.Infof("category id: %d\n", *note.CategoryID)
	}
	if note.Priority != "" {
		log.Infof("priority: %s\n", note.Priority)
	}
	if note.IsPinned {
		log.Infof("pinned: yes\n")
	}
	if note.IsArchived {
		log.Infof("archived: yes\n")
	}
	if note.ReminderAt != nil {
		log.Infof("reminder at: %s\n", note.ReminderAt.Format(timeFormat))
	}
	log.Infof("created at: %s\n", note.CreatedAt.Format(timeFormat))
	if note.UpdatedAt.After(note.CreatedAt) {
		log.Infof("updated at: %s\n", note.UpdatedAt.Format(timeFormat))
	}
	log.Infof("note id: %d\n", note.ID)

	fmt.Printf("\n------------------------content------------------------\n")
	fmt.Printf("%s", note.Content)
	fmt.Printf("\n-------------------------------------------------------\n")
}

// NoteContent prints the content of a note without its metadata
func NoteContent(note client.Note) {
	fmt.Printf("%s", note.Content)
}

// NoteList prints a page of notes
func NoteList(notes []client.Note, pager *store.Pager) {
	for _, n := range notes {
		var markers string
		if n.IsPinned {
			markers += " " + color.YellowString("(pinned)")
		}
		if n.IsArchived {
			markers += " " + color.New(color.FgHiBlack).Sprint("(archived)")
		}
		if store.IsTempID(n.ID) {
			markers += " " + color.New(color.FgHiBlack).Sprint("(saving)")
		}

		log.Plainf("%s %s%s\n", color.CyanString("(%d)", n.ID), n.Title, markers)
	}

	if pager.TotalPages() > 1 {
		log.Plainf("\npage %d of %d (%d notes)\n", pager.Page(), pager.TotalPages(), pager.Total())
	}
}

// CategoryList prints categories with their note counts
func CategoryList(categories []client.Category) {
	for _, c := range categories {
		count := "empty"
		if c.NotesCount == 1 {
			count = "1 note"
		} else if c.NotesCount > 1 {
			count = fmt.Sprintf("%d notes", c.NotesCount)
		}

		log.Plainf("%s %s %s\n", IconGlyph(c.Icon), color.CyanString(c.Name), color.New(color.FgHiBlack).Sprintf("(%s)", count))
	}
}

// TagList prints tags with their note counts
func TagList(tags []client.Tag) {
	for _, t := range tags {
		log.Plainf("%s %s\n", color.CyanString(t.Name), color.New(color.FgHiBlack).Sprintf("(%d)", t.NotesCount))
	}
}

// FolderList prints folders with their note counts
func FolderList(folders []client.Folder) {
	for _, f := range folders {
		log.Plainf("%s %s\n", color.CyanString(f.Name), color.New(color.FgHiBlack).Sprintf("(%d)", f.NotesCount))
	}
}

// SessionList prints the active login sessions
func SessionList(sessions []client.Session) {
	for _, s := range sessions {
		var current string
		if s.IsCurrent {
			current = " " + color.GreenString("(current)")
		}

		log.Plainf("%s %s, %s%s\n", color.CyanString("(%d)", s.ID), s.Device, s.Browser, current)
		log.Plainf("    %s, last active %s\n", s.Location, s.LastActiveAt.Format(timeFormat))
	}
}

// MessageList prints a chat's messages, collapsing consecutive messages of
// one sender into a group
func MessageList(msgs []client.Message, currentUserID int64) {
	groups := messages.Group(msgs, messages.GroupWindow)

	for _, group := range groups {
		head := group[0]

		sender := fmt.Sprintf("user %d", head.SenderID)
		if head.SenderID == currentUserID {
			sender = "you"
		}

		log.Plainf("%s %s\n", color.CyanString(sender), color.New(color.FgHiBlack).Sprint(head.CreatedAt.Format(timeFormat)))
		for _, m := range group {
			log.Plainf("    %s\n", m.Content)
		}
	}
}
