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

// Package infra provides operations and definitions for the
// local infrastructure for notectl
package infra

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/config"
	"github.com/vanminhtruong/notectl/pkg/cli/consts"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/database"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/utils"
	"github.com/vanminhtruong/notectl/pkg/clock"
	"github.com/vanminhtruong/notectl/pkg/dirs"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001"
	// DefaultSocketEndpoint is the default websocket endpoint used when none
	// is configured
	DefaultSocketEndpoint = "ws://localhost:3001/socket"
)

// RunEFunc is a function type of notectl commands
type RunEFunc func(*cobra.Command, []string) error

func getAppDir(base string) string {
	return fmt.Sprintf("%s/%s", base, consts.AppDirName)
}

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return fmt.Sprintf("%s/%s", getAppDir(paths.Data), consts.DBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// This base context is used for file and database initialization before
// being enriched with config values by setupCtx.
func newBaseCtx(versionTag, customDBPath string) (context.NotectlCtx, error) {
	paths := context.Paths{
		Home:   dirs.Home,
		Config: dirs.ConfigHome,
		Data:   dirs.DataHome,
		Cache:  dirs.CacheHome,
	}

	if err := initDirs(paths); err != nil {
		return context.NotectlCtx{}, errors.Wrap(err, "creating the notectl dirs")
	}

	db, err := database.Open(getDBPath(paths, customDBPath))
	if err != nil {
		return context.NotectlCtx{}, errors.Wrap(err, "connecting to db")
	}

	ctx := context.NotectlCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}

	return ctx, nil
}

// Init initializes the notectl environment and returns a new notectl context.
// apiEndpoint is used when creating a new config file (e.g., from ldflags
// during tests).
func Init(versionTag, apiEndpoint, dbPath string) (*context.NotectlCtx, error) {
	// a .env file in the working directory can override endpoints during
	// development. A missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug("loading .env: %s\n", err)
	}

	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "generating the config file")
	}

	if err := database.InitSchema(ctx.DB); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}

	ctx, err = setupCtx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from the config file and the
// database. This is called after files and the database have been initialized.
func setupCtx(ctx context.NotectlCtx) (context.NotectlCtx, error) {
	auth := store.NewAuth()
	if err := auth.Restore(ctx.DB); err != nil {
		return ctx, errors.Wrap(err, "restoring the session")
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	apiEndpoint := cf.APIEndpoint
	if v := os.Getenv("NOTECTL_API_ENDPOINT"); v != "" {
		apiEndpoint = v
	}
	socketEndpoint := cf.SocketEndpoint
	if v := os.Getenv("NOTECTL_SOCKET_ENDPOINT"); v != "" {
		socketEndpoint = v
	}

	// config files written by older releases can miss the endpoints
	if apiEndpoint == "" {
		apiEndpoint = DefaultAPIEndpoint
	}
	if socketEndpoint == "" {
		socketEndpoint = DefaultSocketEndpoint
	}

	if cf.Theme == config.ThemePlain {
		color.NoColor = true
	}

	ret := context.NotectlCtx{
		Paths:              ctx.Paths,
		Version:            ctx.Version,
		DB:                 ctx.DB,
		Token:              auth.Token(),
		APIEndpoint:        apiEndpoint,
		SocketEndpoint:     socketEndpoint,
		Editor:             cf.Editor,
		Theme:              cf.Theme,
		Clock:              clock.New(),
		EnableUpgradeCheck: cf.EnableUpgradeCheck,
		HTTPClient:         client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// EndSession wipes the persisted session. It runs on logout and when the
// server rejects the token.
func EndSession(ctx context.NotectlCtx) error {
	if err := store.NewAuth().Clear(ctx.DB); err != nil {
		return errors.Wrap(err, "clearing the session")
	}

	return nil
}

// getEditorCommand returns the system's editor command with appropriate
// flags, if necessary, to make the command wait until the editor is closed
// to exit
func getEditorCommand() string {
	editor := os.Getenv("EDITOR")

	var ret string

	switch editor {
	case "atom":
		ret = "atom -w"
	case "subl":
		ret = "subl -n -w"
	case "code":
		ret = "code -n -w"
	case "mate":
		ret = "mate -w"
	case "vim":
		ret = "vim"
	case "nano":
		ret = "nano"
	case "emacs":
		ret = "emacs"
	case "nvim":
		ret = "nvim"
	default:
		ret = "vi"
	}

	return ret
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.NotectlCtx, apiEndpoint string) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	endpoint := apiEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	cf := config.Config{
		Editor:             getEditorCommand(),
		APIEndpoint:        endpoint,
		SocketEndpoint:     DefaultSocketEndpoint,
		Theme:              config.ThemeDefault,
		EnableUpgradeCheck: true,
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initDirs creates, if necessary, the notectl directories
func initDirs(paths context.Paths) error {
	if err := utils.EnsureDir(getAppDir(paths.Config)); err != nil {
		return errors.Wrap(err, "creating the config dir")
	}
	if err := utils.EnsureDir(getAppDir(paths.Data)); err != nil {
		return errors.Wrap(err, "creating the data dir")
	}
	if err := utils.EnsureDir(paths.Cache); err != nil {
		return errors.Wrap(err, "creating the cache dir")
	}

	return nil
}
