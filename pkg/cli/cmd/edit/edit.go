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

package edit

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/notes"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
	"github.com/vanminhtruong/notectl/pkg/cli/utils/diff"
)

var contentFlag string
var titleFlag string
var categoryFlag int64
var priorityFlag string
var reminderFlag string
var pinFlag bool
var unpinFlag bool
var archiveFlag bool
var unarchiveFlag bool

var example = `
  * Edit a note's content in an editor
  notectl edit 3

  * Edit a note without launching an editor
  notectl edit 3 -c "new content"

  * Rename and reprioritize a note
  notectl edit 3 -t "new title" -p high

  * Pin or archive a note
  notectl edit 3 --pin
  notectl edit 3 --archive
`

// NewCmd returns a new edit command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <note id>",
		Short:   "Edit a note",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "a new content for the note")
	f.StringVarP(&titleFlag, "title", "t", "", "a new title for the note")
	f.Int64Var(&categoryFlag, "category", 0, "the id of the category to file the note under")
	f.StringVarP(&priorityFlag, "priority", "p", "", "a new priority for the note (low, medium, high)")
	f.StringVar(&reminderFlag, "reminder", "", "a reminder time in RFC3339 format")
	f.BoolVar(&pinFlag, "pin", false, "pin the note")
	f.BoolVar(&unpinFlag, "unpin", false, "unpin the note")
	f.BoolVar(&archiveFlag, "archive", false, "archive the note")
	f.BoolVar(&unarchiveFlag, "unarchive", false, "unarchive the note")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if pinFlag && unpinFlag {
		return errors.New("--pin conflicts with --unpin")
	}
	if archiveFlag && unarchiveFlag {
		return errors.New("--archive conflicts with --unarchive")
	}

	return nil
}

// flagsOnly reports whether the invocation changes metadata without touching
// content, in which case no editor is launched
func flagsOnly() bool {
	return titleFlag != "" || categoryFlag != 0 || priorityFlag != "" ||
		reminderFlag != "" || pinFlag || unpinFlag || archiveFlag || unarchiveFlag
}

func getContent(ctx context.NotectlCtx, current string) (string, error) {
	if contentFlag != "" {
		return contentFlag, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}
	if err := os.WriteFile(fpath, []byte(current), 0644); err != nil {
		return "", errors.Wrap(err, "preparing the content file")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "getting editor input")
	}

	return c, nil
}

func printDiff(before, after string) {
	diffs := diff.Do(before, after)

	for _, d := range diffs {
		switch d.Type {
		case diff.DiffInsert:
			log.Plain(log.ColorGreen.Sprintf("+%s", d.Text))
		case diff.DiffDelete:
			log.Plain(log.ColorRed.Sprintf("-%s", d.Text))
		}
	}
}

func buildPayload(note client.Note) (client.UpdateNotePayload, error) {
	var payload client.UpdateNotePayload

	if titleFlag != "" {
		payload.Title = &titleFlag
	}
	if categoryFlag != 0 {
		payload.CategoryID = &categoryFlag
	}
	if priorityFlag != "" {
		switch priorityFlag {
		case client.PriorityLow, client.PriorityMedium, client.PriorityHigh:
		default:
			return payload, errors.Errorf("unknown priority %s", priorityFlag)
		}
		payload.Priority = &priorityFlag
	}
	if reminderFlag != "" {
		at, err := time.Parse(time.RFC3339, reminderFlag)
		if err != nil {
			return payload, errors.Wrap(err, "parsing the reminder time")
		}
		payload.ReminderAt = &at
	}
	if pinFlag || unpinFlag {
		pinned := pinFlag
		payload.IsPinned = &pinned
	}
	if archiveFlag || unarchiveFlag {
		archived := archiveFlag
		payload.IsArchived = &archived
	}

	return payload, nil
}

func newRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		noteID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parsing the note id")
		}

		resp, err := client.GetNote(ctx, noteID)
		if err != nil {
			return errors.Wrap(err, "finding the note")
		}
		note := resp.Note

		payload, err := buildPayload(note)
		if err != nil {
			return err
		}

		if contentFlag != "" || !flagsOnly() {
			content, err := getContent(ctx, note.Content)
			if err != nil {
				return errors.Wrap(err, "getting content")
			}
			if content != note.Content {
				printDiff(note.Content, content)
				payload.Content = &content
			}
		}

		if payload == (client.UpdateNotePayload{}) {
			log.Info("nothing to update\n")
			return nil
		}

		feature := notes.New(ctx, ui.LogNotifier{})
		feature.Collection().SetAll([]client.Note{note})

		saved, err := feature.Update(noteID, payload)
		if err != nil {
			return errors.Wrap(err, "updating the note")
		}

		log.Successf("edited %s\n", saved.Title)

		return nil
	}
}
