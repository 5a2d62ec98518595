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

package categories

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/categories"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/output"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

var (
	colorFlag string
	iconFlag  string
)

// NewCmd returns a new categories command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Short:   "Manage categories",
		Aliases: []string{"category"},
		RunE:    newListRun(ctx),
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newEditCmd(ctx))
	cmd.AddCommand(newRemoveCmd(ctx))

	return cmd
}

func newListRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		feature := categories.New(ctx, ui.LogNotifier{})
		if err := feature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching categories")
		}

		output.CategoryList(feature.Collection().Items())

		return nil
	}
}

func validateIcon(icon string) error {
	if icon == "" || output.ValidIcon(icon) {
		return nil
	}

	return errors.Errorf("unknown icon %s. Available icons are: %s", icon, strings.Join(output.IconNames(), ", "))
}

func newAddCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return validateIcon(iconFlag)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			feature := categories.New(ctx, ui.LogNotifier{})
			category, err := feature.Create(args[0], colorFlag, iconFlag)
			if err != nil {
				return errors.Wrap(err, "creating the category")
			}

			log.Successf("added a category %s\n", category.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&colorFlag, "color", "", "the category color")
	f.StringVar(&iconFlag, "icon", "", fmt.Sprintf("the category icon (one of: %s)", strings.Join(output.IconNames(), ", ")))

	return cmd
}

func newEditCmd(ctx context.NotectlCtx) *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "edit <category id>",
		Short: "Edit a category",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return validateIcon(iconFlag)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parsing the category id")
			}

			var payload client.UpdateCategoryPayload
			if cmd.Flags().Changed("name") {
				payload.Name = &nameFlag
			}
			if cmd.Flags().Changed("color") {
				payload.Color = &colorFlag
			}
			if cmd.Flags().Changed("icon") {
				payload.Icon = &iconFlag
			}

			if payload == (client.UpdateCategoryPayload{}) {
				log.Info("nothing to update\n")
				return nil
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			category, err := feature.Update(id, payload)
			if err != nil {
				return errors.Wrap(err, "updating the category")
			}

			log.Successf("updated the category %s\n", category.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&nameFlag, "name", "", "the category name")
	f.StringVar(&colorFlag, "color", "", "the category color")
	f.StringVar(&iconFlag, "icon", "", "the category icon")

	return cmd
}

func newRemoveCmd(ctx context.NotectlCtx) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:     "remove <category id>",
		Short:   "Remove a category",
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
				return errors.Wrap(err, "parsing the category id")
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			category, ok := feature.Collection().Get(id)
			if !ok {
				return errors.Errorf("category %d not found", id)
			}

			if !yesFlag {
				ok, err := ui.Confirm(fmt.Sprintf("remove the category \"%s\"?", category.Name), false)
				if err != nil {
					return errors.Wrap(err, "getting confirmation")
				}
				if !ok {
					log.Warnf("aborted by user\n")
					return nil
				}
			}

			if err := feature.Delete(id); err != nil {
				return errors.Wrap(err, "removing the category")
			}

			log.Successf("removed the category %s\n", category.Name)

			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")

	return cmd
}

// seededFeature returns a category feature preloaded with the server's
// category list so mutations can roll back to the fetched state
func seededFeature(ctx context.NotectlCtx) (*categories.Feature, error) {
	feature := categories.New(ctx, ui.LogNotifier{})
	if err := feature.Fetch(); err != nil {
		return nil, errors.Wrap(err, "fetching categories")
	}

	return feature, nil
}
