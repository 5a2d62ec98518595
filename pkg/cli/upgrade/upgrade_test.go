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

package upgrade

import (
	"testing"
	"time"

	"github.com/vanminhtruong/notectl/pkg/assert"
	"github.com/vanminhtruong/notectl/pkg/cli/consts"
	"github.com/vanminhtruong/notectl/pkg/cli/context"
	"github.com/vanminhtruong/notectl/pkg/cli/database"
	"github.com/vanminhtruong/notectl/pkg/clock"
)

func newTestCtx(t *testing.T, enabled bool) context.NotectlCtx {
	db := database.InitTestMemoryDB(t)

	c := clock.NewMock()
	c.SetNow(time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC))

	return context.NotectlCtx{
		DB:                 db,
		Clock:              c,
		EnableUpgradeCheck: enabled,
	}
}

func TestShouldCheck(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ctx := newTestCtx(t, false)

		got, err := shouldCheck(ctx)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, got, false, "should not check when the user opted out")
	})

	t.Run("never checked", func(t *testing.T) {
		ctx := newTestCtx(t, true)

		got, err := shouldCheck(ctx)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, got, true, "should check on the first run")
	})

	t.Run("checked recently", func(t *testing.T) {
		ctx := newTestCtx(t, true)

		lastCheck := ctx.Clock.Now().Add(-time.Hour).Unix()
		if err := database.UpsertSystem(ctx.DB, consts.SystemLastUpgradeCheck, lastCheck); err != nil {
			t.Fatal(err)
		}

		got, err := shouldCheck(ctx)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, got, false, "should not check within the interval")
	})

	t.Run("checked long ago", func(t *testing.T) {
		ctx := newTestCtx(t, true)

		lastCheck := ctx.Clock.Now().Add(-48 * time.Hour).Unix()
		if err := database.UpsertSystem(ctx.DB, consts.SystemLastUpgradeCheck, lastCheck); err != nil {
			t.Fatal(err)
		}

		got, err := shouldCheck(ctx)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, got, true, "should check after the interval passed")
	})
}

func TestTouchLastCheck(t *testing.T) {
	ctx := newTestCtx(t, true)

	if err := touchLastCheck(ctx); err != nil {
		t.Fatal(err)
	}

	var lastCheck int64
	if err := database.GetSystem(ctx.DB, consts.SystemLastUpgradeCheck, &lastCheck); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, lastCheck, ctx.Clock.Now().Unix(), "last check time mismatch")
}
