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

// Package watch streams server pushes into the local collections and keeps
// them rendered until interrupted.
package watch

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/features/categories"
	"github.com/vanminhtruong/notectl/pkg/cli/features/messages"
	"github.com/vanminhtruong/notectl/pkg/cli/features/notes"
	"github.com/vanminhtruong/notectl/pkg/cli/features/sessions"
	"github.com/vanminhtruong/notectl/pkg/cli/features/tags"
	"github.com/vanminhtruong/notectl/pkg/cli/infra"
	"github.com/vanminhtruong/notectl/pkg/cli/log"
	"github.com/vanminhtruong/notectl/pkg/cli/reminder"
	"github.com/vanminhtruong/notectl/pkg/cli/socket"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
)

var chatFlag int64

// NewCmd returns a new watch command
func NewCmd(ctx context.NotectlCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for changes pushed by the server",
		Long: `watch connects to the server and applies pushed changes to the local
collections as they happen. Reminders of the watched notes fire while the
watch is running. Stop with Ctrl-C.`,
		RunE: newRun(ctx),
	}

	f := cmd.Flags()
	f.Int64Var(&chatFlag, "chat", 0, "a chat id to stream messages from")

	return cmd
}

func newRun(ctx context.NotectlCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.Token == "" {
			return errors.New("not logged in")
		}

		auth := store.NewAuth()
		if err := auth.Restore(ctx.DB); err != nil {
			return errors.Wrap(err, "restoring the session")
		}
		user, hasUser := auth.User()
		if hasUser {
			log.Infof("logged in as %s\n", user.Email)
		}

		sock := socket.New(ctx.SocketEndpoint, ctx.Token)
		defer sock.Close()
		bus := sock.Bus()

		notifier := ui.LogNotifier{}

		forcedLogout := make(chan struct{}, 1)
		notesFeature := notes.New(ctx, notifier)
		categoriesFeature := categories.New(ctx, notifier)
		tagsFeature := tags.New(ctx, notifier)
		sessionsFeature := sessions.New(ctx, notifier, func() {
			select {
			case forcedLogout <- struct{}{}:
			default:
			}
		})
		messagesFeature := messages.New(ctx, notifier)

		if err := notesFeature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching notes")
		}
		if err := categoriesFeature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching categories")
		}
		if err := tagsFeature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching tags")
		}
		if err := sessionsFeature.Fetch(); err != nil {
			return errors.Wrap(err, "fetching sessions")
		}
		if chatFlag != 0 {
			if err := messagesFeature.Open(chatFlag); err != nil {
				return errors.Wrap(err, "opening the chat")
			}
		}

		notesFeature.Mount(bus)
		defer notesFeature.Unmount()
		categoriesFeature.Mount(bus)
		defer categoriesFeature.Unmount()
		tagsFeature.Mount(bus)
		defer tagsFeature.Unmount()
		sessionsFeature.Mount(bus)
		defer sessionsFeature.Unmount()
		messagesFeature.Mount(bus)
		defer messagesFeature.Unmount()

		unsubNotes := notesFeature.Collection().Subscribe(func() {
			log.Infof("notes changed (%d in view)\n", notesFeature.Collection().Len())
		})
		defer unsubNotes()
		unsubCategories := categoriesFeature.Collection().Subscribe(func() {
			log.Infof("categories changed (%d)\n", categoriesFeature.Collection().Len())
		})
		defer unsubCategories()
		unsubTags := tagsFeature.Collection().Subscribe(func() {
			log.Infof("tags changed (%d)\n", tagsFeature.Collection().Len())
		})
		defer unsubTags()
		unsubMessages := messagesFeature.Collection().Subscribe(func() {
			items := messagesFeature.Collection().Items()
			if len(items) == 0 {
				return
			}

			last := items[len(items)-1]
			sender := strconv.FormatInt(last.SenderID, 10)
			if hasUser && last.SenderID == user.ID {
				sender = "you"
			}
			log.Plainf("[chat %d] %s: %s\n", last.ChatID, sender, last.Content)
		})
		defer unsubMessages()

		sched := reminder.NewScheduler(notesFeature.Collection(), notifier, ctx.Clock)
		if err := sched.Start(); err != nil {
			return errors.Wrap(err, "starting the reminder scheduler")
		}
		defer sched.Stop()

		log.Infof("watching %s. Press Ctrl-C to stop.\n", ctx.SocketEndpoint)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sig:
			log.Info("stopping\n")
		case <-forcedLogout:
			if err := infra.EndSession(ctx); err != nil {
				return errors.Wrap(err, "clearing the local session")
			}

			return errors.New("the session was revoked. Please log in again")
		}

		return nil
	}
}
