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

package add

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/notes"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/output"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
	"github.com/vanminhtruong/notectl/pkg/cli/upgrade"
)

var contentFlag string
var categoryFlag int64
var priorityFlag string
var reminderFlag string

var example = `
 * Open an editor to write content
 notectl add "snippets"

 * Skip the editor by providing content directly
 notectl add "snippets" -c "time is a part of the commit hash"

 * Send stdin content to a note
 echo "a branch is just a pointer to a commit" | notectl add "snippets"

 * File the note under a category with a priority and a reminder
 notectl add "standup" --category 3 --priority high --reminder 2026-09-01T09:00:00Z`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new add command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a new note",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "The new content for the note")
	f.Int64Var(&categoryFlag, "category", 0, "the id of the category to file the note under")
	f.StringVarP(&priorityFlag, "priority", "p", "", "the priority of the note (low, medium, high)")
	f.StringVar(&reminderFlag, "reminder", "", "a reminder time in RFC3339 format")

	return cmd
}

func getContent(ctx context.NotectlCtx) (string, error) {
	if contentFlag != "" {
		return contentFlag, nil
	}

	// check for piped content
	fInfo, _ := os.Stdin.Stat()
	if fInfo.Mode()&os.ModeCharDevice == 0 {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", errors.Wrap(err, "getting piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "getting editor input")
	}

	return c, nil
}

func validatePriority(priority string) error {
	switch priority {
	case "", client.PriorityLow, client.PriorityMedium, client.PriorityHigh:
		return nil
	}

	return errors.Errorf("unknown priority %s", priority)
}

func newRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		title := args[0]
		if title == "" {
			return errors.New("Empty title")
		}
		if err := validatePriority(priorityFlag); err != nil {
			return err
		}

		content, err := getContent(ctx)
		if err != nil {
			return errors.Wrap(err, "getting content")
		}
		if content == "" {
			return errors.New("Empty content")
		}

		payload := client.CreateNotePayload{
			Title:    title,
			Content:  content,
			Priority: priorityFlag,
		}
		if categoryFlag != 0 {
			payload.CategoryID = &categoryFlag
		}
		if reminderFlag != "" {
			at, err := time.Parse(time.RFC3339, reminderFlag)
			if err != nil {
				return errors.Wrap(err, "parsing the reminder time")
			}
			payload.ReminderAt = &at
		}

		feature := notes.New(ctx, ui.LogNotifier{})
		saved, err := feature.Create(payload)
		if err != nil {
			return errors.Wrap(err, "creating the note")
		}

		log.Successf("added %s\n", saved.Title)
		output.NoteInfo(saved)

		if err := upgrade.Check(ctx); err != nil {
			log.Error(errors.Wrap(err, "automatically checking updates").Error())
		}

		return nil
	}
}
