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

package ls

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/notes"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/output"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

var pageFlag int
var limitFlag int
var categoryFlag int64
var tagFlag int64
var folderFlag int64
var archivedFlag bool
var priorityFlag string
var searchFlag string

var example = `
 * List the first page of notes
 notectl ls

 * List the second page, 50 notes at a time
 notectl ls --page 2 --limit 50

 * Narrow the list down
 notectl ls --category 3 --priority high
 notectl ls --search "commit hash"
 notectl ls --archived`

// NewCmd returns a new ls command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "List notes",
		Aliases: []string{"l", "notes"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.IntVar(&pageFlag, "page", 1, "the page to list")
	f.IntVar(&limitFlag, "limit", notes.DefaultPageLimit, "the number of notes per page")
	f.Int64Var(&categoryFlag, "category", 0, "list notes of the category with the given id")
	f.Int64Var(&tagFlag, "tag", 0, "list notes carrying the tag with the given id")
	f.Int64Var(&folderFlag, "folder", 0, "list notes in the folder with the given id")
	f.BoolVar(&archivedFlag, "archived", false, "list archived notes")
	f.StringVarP(&priorityFlag, "priority", "p", "", "list notes with the given priority")
	f.StringVarP(&searchFlag, "search", "s", "", "list notes matching the given text")

	return cmd
}

func buildFilter() notes.Filter {
	var filter notes.Filter

	if categoryFlag != 0 {
		filter.CategoryID = &categoryFlag
	}
	if tagFlag != 0 {
		filter.TagID = &tagFlag
	}
	if folderFlag != 0 {
		filter.FolderID = &folderFlag
	}
	if archivedFlag {
		filter.Archived = &archivedFlag
	}
	filter.Priority = priorityFlag
	filter.Search = searchFlag

	return filter
}

func newRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if priorityFlag != "" {
			switch priorityFlag {
			case client.PriorityLow, client.PriorityMedium, client.PriorityHigh:
			default:
				return errors.Errorf("unknown priority %s", priorityFlag)
			}
		}

		feature := notes.New(ctx, ui.LogNotifier{})
		feature.SetFilter(buildFilter())
		feature.Pager().SetLimit(limitFlag)
		feature.Pager().SetPage(pageFlag)

		if err := feature.Fetch(); err != nil {
			return errors.Wrap(err, "listing notes")
		}

		output.NoteList(feature.Collection().Items(), feature.Pager())

		return nil
	}
}
