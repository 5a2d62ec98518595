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

package logout

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
)

// NewCmd returns a new logout command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout from the notectl server",
		RunE:  newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.Token == "" {
			log.Info("not logged in\n")
			return nil
		}

		// revoke the session server-side; a dead token is wiped locally
		// either way
		err := client.Logout(ctx)
		if err != nil && errors.Cause(err) != client.ErrSessionExpired {
			log.Warnf("could not revoke the session on the server: %s\n", err)
		}

		if err := infra.EndSession(ctx); err != nil {
			return errors.Wrap(err, "clearing the local session")
		}

		log.Success("logged out\n")

		return nil
	}
}
