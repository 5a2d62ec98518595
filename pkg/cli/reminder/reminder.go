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

// Package reminder notifies the user when a note's reminder comes due. The
// sweep runs on a schedule and fires once per due time; rescheduling a
// reminder arms it again.
package reminder

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron"

	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/cli/ui"
	"github.com/vanminhtruong/notectl/pkg/clock"
)

// sweepSchedule is how often due reminders are checked
const sweepSchedule = "@every 1m"

type firedKey struct {
	noteID int64
	dueAt  int64
}

// Scheduler sweeps the note collection for due reminders
type Scheduler struct {
	col      *store.Collection[client.Note]
	notifier ui.Notifier
	clock    clock.Clock
	cron     *cron.Cron

	mu    sync.Mutex
	fired map[firedKey]bool
}

// NewScheduler returns a scheduler sweeping the given collection
func NewScheduler(col *store.Collection[client.Note], notifier ui.Notifier, c clock.Clock) *Scheduler {
	return &Scheduler{
		col:      col,
		notifier: notifier,
		clock:    c,
		fired:    map[firedKey]bool{},
	}
}

// Start begins the periodic sweep
func (s *Scheduler) Start() error {
	if s.cron != nil {
		return errors.New("the scheduler is already running")
	}

	s.cron = cron.New()
	if err := s.cron.AddFunc(sweepSchedule, s.sweep); err != nil {
		s.cron = nil
		return errors.Wrap(err, "scheduling the reminder sweep")
	}
	s.cron.Start()

	// catch reminders already due at startup
	s.sweep()

	return nil
}

// Stop halts the periodic sweep
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}

	s.cron.Stop()
	s.cron = nil
}

// sweep notifies for every due, unarchived reminder that has not fired yet.
// A reminder fires once per due time: moving it to a new time arms it again.
func (s *Scheduler) sweep() {
	now := s.clock.Now()

	for _, n := range s.col.Items() {
		if n.ReminderAt == nil || n.IsArchived || n.ReminderAt.After(now) {
			continue
		}

		key := firedKey{noteID: n.ID, dueAt: n.ReminderAt.Unix()}

		s.mu.Lock()
		seen := s.fired[key]
		if !seen {
			s.fired[key] = true
		}
		s.mu.Unlock()

		if seen {
			continue
		}

		s.notifier.Successf("reminder: %s (note %d)\n", n.Title, n.ID)
	}
}
