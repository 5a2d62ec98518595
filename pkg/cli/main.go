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

package main

import (
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"

	// commands
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/add"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/categories"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/edit"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/folders"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/login"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/logout"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/ls"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/remove"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/root"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/sessions"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/tags"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/version"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/view"
	"github.com/vanminhtruong/notectl/pkg/cli/cmd/watch"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseDBPath extracts the --dbPath flag value from the command line arguments
// regardless of where it appears. Cobra only parses flags after picking the
// subcommand, which is too late for opening the database.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}

func main() {
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, apiEndpoint, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer ctx.DB.Close()

	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(add.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(categories.NewCmd(*ctx))
	root.Register(tags.NewCmd(*ctx))
	root.Register(folders.NewCmd(*ctx))
	root.Register(sessions.NewCmd(*ctx))
	root.Register(watch.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		if errors.Cause(err) == client.ErrSessionExpired {
			if err := infra.EndSession(*ctx); err != nil {
				log.Errorf("clearing the expired session: %s\n", err.Error())
			}

			log.Errorf("your session has expired. Please log in again with `notectl login`\n")
			os.Exit(1)
		}

		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
