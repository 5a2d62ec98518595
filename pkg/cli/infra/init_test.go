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

package infra

import (
	"fmt"
	"testing"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/config"
	"github.com/vanminhtruong/notectl/pkg/cli/consts"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/database"
	"github.com/vanminhtruong/notectl/pkg/cli/utils"
)

func newTestPaths(t *testing.T) context.Paths {
	root := t.TempDir()

	paths := context.Paths{
		Home:   root,
		Config: fmt.Sprintf("%s/config", root),
		Data:   fmt.Sprintf("%s/data", root),
		Cache:  fmt.Sprintf("%s/cache", root),
	}

	if err := initDirs(paths); err != nil {
		t.Fatal(err)
	}

	return paths
}

func TestGetDBPath(t *testing.T) {
	paths := context.Paths{Data: "/home/user/.local/share"}

	got := getDBPath(paths, "")
	assert.Equal(t, got, "/home/user/.local/share/notectl/notectl.db", "default db path mismatch")

	got = getDBPath(paths, "/tmp/custom.db")
	assert.Equal(t, got, "/tmp/custom.db", "custom db path mismatch")
}

func TestInitConfigFile(t *testing.T) {
	paths := newTestPaths(t)
	ctx := context.NotectlCtx{Paths: paths}

	if err := initConfigFile(ctx, ""); err != nil {
		t.Fatal(err)
	}

	ok, err := utils.FileExists(config.GetPath(ctx))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ok, true, "config file should have been created")

	cf, err := config.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, cf.APIEndpoint, DefaultAPIEndpoint, "api endpoint mismatch")
	assert.Equal(t, cf.SocketEndpoint, DefaultSocketEndpoint, "socket endpoint mismatch")
	assert.Equal(t, cf.EnableUpgradeCheck, true, "upgrade check should default to on")
}

func TestInitConfigFile_existingFileUntouched(t *testing.T) {
	paths := newTestPaths(t)
	ctx := context.NotectlCtx{Paths: paths}

	orig := config.Config{Editor: "vim", APIEndpoint: "https://api.example.com"}
	if err := config.Write(ctx, orig); err != nil {
		t.Fatal(err)
	}

	if err := initConfigFile(ctx, "http://localhost:9999"); err != nil {
		t.Fatal(err)
	}

	cf, err := config.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, cf.APIEndpoint, "https://api.example.com", "an existing config file must not be overwritten")
}

func TestSetupCtx(t *testing.T) {
	paths := newTestPaths(t)
	ctx := context.NotectlCtx{
		Paths:   paths,
		Version: "0.1.0",
		DB:      database.InitTestMemoryDB(t),
	}

	if err := initConfigFile(ctx, "http://localhost:3001"); err != nil {
		t.Fatal(err)
	}
	if err := database.UpsertSystem(ctx.DB, consts.SystemToken, "someToken"); err != nil {
		t.Fatal(err)
	}

	got, err := setupCtx(ctx)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, got.Token, "someToken", "token mismatch")
	assert.Equal(t, got.APIEndpoint, "http://localhost:3001", "api endpoint mismatch")
	assert.Equal(t, got.Version, "0.1.0", "version mismatch")
	assert.NotEqual(t, got.Clock, nil, "clock should be set")
	assert.NotEqual(t, got.HTTPClient, nil, "http client should be set")
}

func TestEndSession(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	ctx := context.NotectlCtx{DB: db}

	if err := database.UpsertSystem(db, consts.SystemToken, "someToken"); err != nil {
		t.Fatal(err)
	}
	if err := database.UpsertSystem(db, consts.SystemUser, `{"id": 1}`); err != nil {
		t.Fatal(err)
	}

	if err := EndSession(ctx); err != nil {
		t.Fatal(err)
	}

	var count int
	database.MustScan(t, "counting system rows",
		db.QueryRow("SELECT count(*) FROM system WHERE key IN (?, ?)", consts.SystemToken, consts.SystemUser), &count)
	assert.Equal(t, count, 0, "session rows should be gone")
}
