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

package tags

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/tags"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/output"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

var colorFlag string

// NewCmd returns a new tags command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Short:   "Manage tags",
		Aliases: []string{"tag"},
		RunE:    newListRun(ctx),
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newEditCmd(ctx))
	cmd.AddCommand(newRemoveCmd(ctx))

	return cmd
}

func newListRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		feature := tags.New(ctx, ui.LogNotifier{})
		if err := feature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching tags")
		}

		output.TagList(feature.Collection().Items())

		return nil
	}
}

func newAddCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			feature := tags.New(ctx, ui.LogNotifier{})
			tag, err := feature.Create(args[0], colorFlag)
			if err != nil {
				return errors.Wrap(err, "creating the tag")
			}

			log.Successf("added a tag %s\n", tag.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&colorFlag, "color", "", "the tag color")

	return cmd
}

func newEditCmd(ctx context.NotectlCtx) *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "edit <tag id>",
		Short: "Edit a tag",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parsing the tag id")
			}

			var payload client.UpdateTagPayload
			if cmd.Flags().Changed("name") {
				payload.Name = &nameFlag
			}
			if cmd.Flags().Changed("color") {
				payload.Color = &colorFlag
			}

			if payload == (client.UpdateTagPayload{}) {
				log.Info("nothing to update\n")
				return nil
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			tag, err := feature.Update(id, payload)
			if err != nil {
				return errors.Wrap(err, "updating the tag")
			}

			log.Successf("updated the tag %s\n", tag.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&nameFlag, "name", "", "the tag name")
	f.StringVar(&colorFlag, "color", "", "the tag color")

	return cmd
}

func newRemoveCmd(ctx context.NotectlCtx) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:     "remove <tag id>",
		Short:   "Remove a tag",
		Aliases: []string{"rm"},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parsing the tag id")
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			tag, ok := feature.Collection().Get(id)
			if !ok {
				return errors.Errorf("tag %d not found", id)
			}

			if !yesFlag {
				ok, err := ui.Confirm(fmt.Sprintf("remove the tag \"%s\"?", tag.Name), false)
				if err != nil {
					return errors.Wrap(err, "getting confirmation")
				}
				if !ok {
					log.Warnf("aborted by user\n")
					return nil
				}
			}

			if err := feature.Delete(id); err != nil {
				return errors.Wrap(err, "removing the tag")
			}

			log.Successf("removed the tag %s\n", tag.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")

	return cmd
}

func seededFeature(ctx context.NotectlCtx) (*tags.Feature, error) {
	feature := tags.New(ctx, ui.LogNotifier{})
	if err := feature.Fetch(); err != nil {
		return nil, errors.Wrap(err, "fetching tags")
	}

	return feature, nil
}
