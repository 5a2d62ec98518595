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

package reminder

import (
	"fmt"
	"testing"
	"time"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/client"
	"github.com/vanminhtruong/notectl/pkg/cli/store"
	"github.com/vanminhtruong/notectl/pkg/clock"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Successf(msg string, v ...interface{}) {
	n.successes = append(n.successes, fmt.Sprintf(msg, v...))
}

func (n *recordingNotifier) Errorf(msg string, v ...interface{}) {
	n.errors = append(n.errors, fmt.Sprintf(msg, v...))
}

func TestSweep(t *testing.T) {
	base := time.Date(2023, 11, 14, 22, 0, 0, 0, time.UTC)
	due := base.Add(-time.Minute)
	future := base.Add(time.Hour)

	col := store.NewCollection[client.Note]()
	col.SetAll([]client.Note{
		{ID: 1, Title: "due", ReminderAt: &due},
		{ID: 2, Title: "not yet", ReminderAt: &future},
		{ID: 3, Title: "no reminder"},
		{ID: 4, Title: "archived", ReminderAt: &due, IsArchived: true},
	})

	c := clock.NewMock()
	c.SetNow(base)

	notifier := &recordingNotifier{}
	s := NewScheduler(col, notifier, c)

	s.sweep()

	assert.Equal(t, len(notifier.successes), 1, "only the due, unarchived reminder should fire")
}

func TestSweep_firesOncePerDueTime(t *testing.T) {
	base := time.Date(2023, 11, 14, 22, 0, 0, 0, time.UTC)
	due := base.Add(-time.Minute)

	col := store.NewCollection[client.Note]()
	col.SetAll([]client.Note{{ID: 1, Title: "due", ReminderAt: &due}})

	c := clock.NewMock()
	c.SetNow(base)

	notifier := &recordingNotifier{}
	s := NewScheduler(col, notifier, c)

	s.sweep()
	s.sweep()

	assert.Equal(t, len(notifier.successes), 1, "a reminder should fire once per due time")
}

func TestSweep_rescheduledReminderFiresAgain(t *testing.T) {
	base := time.Date(2023, 11, 14, 22, 0, 0, 0, time.UTC)
	due := base.Add(-time.Minute)

	col := store.NewCollection[client.Note]()
	col.SetAll([]client.Note{{ID: 1, Title: "due", ReminderAt: &due}})

	c := clock.NewMock()
	c.SetNow(base)

	notifier := &recordingNotifier{}
	s := NewScheduler(col, notifier, c)

	s.sweep()

	// the user moves the reminder forward and it comes due again
	rescheduled := base.Add(30 * time.Minute)
	col.Patch(1, func(n client.Note) client.Note {
		n.ReminderAt = &rescheduled
		return n
	})
	c.SetNow(base.Add(time.Hour))

	s.sweep()

	assert.Equal(t, len(notifier.successes), 2, "a rescheduled reminder should fire again")
}
