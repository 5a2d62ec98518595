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

// Package upgrade checks for a newer release of the program
package upgrade

import (
	gocontext "context"
	"database/sql"
	"strings"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/consts"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/database"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
)

const (
	repoOwner = "vanminhtruong"
	repoName  = "notectl"

	// checkInterval is the minimum number of seconds between two checks
	checkInterval = 3600 * 24
)

func shouldCheck(ctx context.NotectlCtx) (bool, error) {
	if !ctx.EnableUpgradeCheck {
		return false, nil
	}

	var lastCheck int64
	err := database.GetSystem(ctx.DB, consts.SystemLastUpgradeCheck, &lastCheck)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "getting the last upgrade check time")
	}

	return ctx.Clock.Now().Unix()-lastCheck > checkInterval, nil
}

func touchLastCheck(ctx context.NotectlCtx) error {
	err := database.UpsertSystem(ctx.DB, consts.SystemLastUpgradeCheck, ctx.Clock.Now().Unix())
	if err != nil {
		return errors.Wrap(err, "updating the last upgrade check time")
	}

	return nil
}

func fetchLatestTag() (string, error) {
	client := github.NewClient(nil)

	release, _, err := client.Repositories.GetLatestRelease(gocontext.Background(), repoOwner, repoName)
	if err != nil {
		return "", errors.Wrap(err, "fetching the latest release")
	}

	return strings.TrimPrefix(release.GetTagName(), "v"), nil
}

// Check notifies the user when a newer release exists. It runs at most once
// per day and only when the user opted in.
func Check(ctx context.NotectlCtx) error {
	ok, err := shouldCheck(ctx)
	if err != nil {
		return errors.Wrap(err, "deciding whether to check")
	}
	if !ok {
		return nil
	}

	latest, err := fetchLatestTag()
	if err != nil {
		return errors.Wrap(err, "checking for an upgrade")
	}

	if err := touchLastCheck(ctx); err != nil {
		return err
	}

	if latest != "" && latest != ctx.Version {
		log.Infof("a newer version %s is available. Run 'notectl upgrade' or grab the release.\n", latest)
	}

	return nil
}
