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

package folders

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/folders"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/output"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// NewCmd returns a new folders command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Short:   "Manage folders",
		Aliases: []string{"folder"},
		RunE:    newListRun(ctx),
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newEditCmd(ctx))
	cmd.AddCommand(newRemoveCmd(ctx))

	return cmd
}

func newListRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		feature := folders.New(ctx, ui.LogNotifier{})
		if err := feature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching folders")
		}

		output.FolderList(feature.Collection().Items())

		return nil
	}
}

func newAddCmd(ctx context.NotectlCtx) *cobra.Command {
	var colorFlag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a folder",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			feature := folders.New(ctx, ui.LogNotifier{})
			folder, err := feature.Create(args[0], colorFlag)
			if err != nil {
				return errors.Wrap(err, "creating the folder")
			}

			log.Successf("added a folder %s\n", folder.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&colorFlag, "color", "", "the folder color")

	return cmd
}

func newEditCmd(ctx context.NotectlCtx) *cobra.Command {
	var nameFlag string
	var colorFlag string

	cmd := &cobra.Command{
		Use:   "edit <folder id>",
		Short: "Edit a folder",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parsing the folder id")
			}

			var payload client.UpdateFolderPayload
			if cmd.Flags().Changed("name") {
				payload.Name = &nameFlag
			}
			if cmd.Flags().Changed("color") {
				payload.Color = &colorFlag
			}

			if payload == (client.UpdateFolderPayload{}) {
				log.Info("nothing to update\n")
				return nil
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			folder, err := feature.Update(id, payload)
			if err != nil {
				return errors.Wrap(err, "updating the folder")
			}

			log.Successf("updated the folder %s\n", folder.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&nameFlag, "name", "", "the folder name")
	f.StringVar(&colorFlag, "color", "", "the folder color")

	return cmd
}

func newRemoveCmd(ctx context.NotectlCtx) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:     "remove <folder id>",
		Short:   "Remove a folder",
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
				return errors.Wrap(err, "parsing the folder id")
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			folder, ok := feature.Collection().Get(id)
			if !ok {
				return errors.Errorf("folder %d not found", id)
			}

			if !yesFlag {
				ok, err := ui.Confirm(fmt.Sprintf("remove the folder \"%s\"? Its notes are kept", folder.Name), false)
				if err != nil {
					return errors.Wrap(err, "getting confirmation")
				}
				if !ok {
					log.Warnf("aborted by user\n")
					return nil
				}
			}

			if err := feature.Delete(id); err != nil {
				return errors.Wrap(err, "removing the folder")
			}

			log.Successf("removed the folder %s\n", folder.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")

	return cmd
}

func seededFeature(ctx context.NotectlCtx) (*folders.Feature, error) {
	feature := folders.New(ctx, ui.LogNotifier{})
	if err := feature.Fetch(); err != nil {
		return nil, errors.Wrap(err, "fetching folders")
	}

	return feature, nil
}
