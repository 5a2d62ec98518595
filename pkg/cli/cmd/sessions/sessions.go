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

package sessions

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/sessions"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/output"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

// NewCmd returns a new sessions command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Short:   "Manage login sessions",
		Aliases: []string{"session"},
		RunE:    newListRun(ctx),
	}

	cmd.AddCommand(newRevokeCmd(ctx))
	cmd.AddCommand(newRevokeOthersCmd(ctx))

	return cmd
}

func newListRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		feature, err := seededFeature(ctx)
		if err != nil {
			return err
		}

		output.SessionList(feature.Collection().Items())

		return nil
	}
}

func newRevokeCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <session id>",
		Short: "Revoke a login session",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("Incorrect number of argument")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "parsing the session id")
			}

			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			if err := feature.Revoke(id); err != nil {
				return errors.Wrap(err, "revoking the session")
			}

			log.Successf("revoked the session %d\n", id)

			return nil
		},
	}

	return cmd
}

func newRevokeOthersCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke-others",
		Short: "Revoke all login sessions except the current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			feature, err := seededFeature(ctx)
			if err != nil {
				return err
			}

			if err := feature.RevokeOthers(); err != nil {
				return errors.Wrap(err, "revoking the sessions")
			}

			log.Success("revoked all other sessions\n")

			return nil
		},
	}

	return cmd
}

func seededFeature(ctx context.NotectlCtx) (*sessions.Feature, error) {
	feature := sessions.New(ctx, ui.LogNotifier{}, nil)
	if err := feature.Fetch(); err != nil {
		return nil, errors.Wrap(err, "fetching sessions")
	}

	return feature, nil
}
