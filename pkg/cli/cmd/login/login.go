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

package login

import (
	"database/sql"
	"net/url"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/consts"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/database"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
	"github.com/vanminhtruong/notectl/pkg/cli/utils"
)

// NewCmd returns a new login command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the notectl server",
		RunE:  newRun(ctx),
	}

	return cmd
}

// getServerDisplayURL derives a user-facing URL of the server from the
// configured API endpoint
func getServerDisplayURL(ctx context.NotectlCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// getDeviceID returns the stable identifier of this machine, creating one on
// the first login
func getDeviceID(ctx context.NotectlCtx) (string, error) {
	var deviceID string
	err := database.GetSystem(ctx.DB, consts.SystemDeviceID, &deviceID)
	if err == nil {
		return deviceID, nil
	}
	if err != sql.ErrNoRows {
		return "", errors.Wrap(err, "finding the device id")
	}

	deviceID, err = utils.GenerateUUID()
	if err != nil {
		return "", errors.Wrap(err, "generating a device id")
	}
	if err := database.UpsertSystem(ctx.DB, consts.SystemDeviceID, deviceID); err != nil {
		return "", errors.Wrap(err, "persisting the device id")
	}

	return deviceID, nil
}

func newRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if displayURL := getServerDisplayURL(ctx); displayURL != "" {
			log.Plainf("logging in to %s\n", displayURL)
		}

		var email, password string
		if err := ui.PromptInput("email", &email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
		if email == "" {
			return errors.New("Email is empty")
		}

		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}
		if password == "" {
			return errors.New("Password is empty")
		}

		deviceID, err := getDeviceID(ctx)
		if err != nil {
			return errors.Wrap(err, "getting device id")
		}

		resp, err := client.Login(ctx, email, password, deviceID)
		if err == client.ErrInvalidLogin {
			log.Error("wrong login\n")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "logging in")
		}

		auth := store.NewAuth()
		if err := auth.SetSession(ctx.DB, resp.User, resp.Token); err != nil {
			return errors.Wrap(err, "persisting the session")
		}

		log.Successf("logged in as %s\n", resp.User.Email)

		return nil
	}
}
