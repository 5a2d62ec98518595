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

package store

import (
	"testing"

	"github.com/vanminhtruong/notectl/pkg/assert"
)

func TestPager_filterChangeResetsPage(t *testing.T) {
	p := NewPager(20)
	p.SetPage(4)

	// filter change
	p.ResetToFirstPage()

	assert.Equal(t, p.Page(), 1, "page should reset to 1 on a filter change")
}

func TestPager_staleResponseDiscarded(t *testing.T) {
	p := NewPager(20)

	first := p.Begin()
	second := p.Begin()

	// the newer fetch resolves first
	assert.Equal(t, p.Complete(second, 2, 20, 100, 5), true, "the fresh response should apply")

	// the older response straggles in afterwards
	assert.Equal(t, p.Complete(first, 1, 20, 90, 5), false, "the stale response should be discarded")
	assert.Equal(t, p.Page(), 2, "page should keep the fresh value")
	assert.Equal(t, p.Total(), 100, "total should keep the fresh value")
}

func TestPager_failedFetchKeepsWindow(t *testing.T) {
	p := NewPager(20)

	token := p.Begin()
	p.Complete(token, 3, 20, 100, 5)

	token = p.Begin()
	assert.Equal(t, p.Loading(), true, "pager should be loading")

	p.Fail(token)

	assert.Equal(t, p.Loading(), false, "pager should be idle after a failure")
	assert.Equal(t, p.Page(), 3, "page data should be left in place after a failure")
	assert.Equal(t, p.TotalPages(), 5, "totalPages should be left in place after a failure")
}

func TestPager_serverAuthoritativeTotalPages(t *testing.T) {
	p := NewPager(10)

	token := p.Begin()
	// server reports totals the client could not derive from page size alone
	p.Complete(token, 1, 10, 7, 3)

	assert.Equal(t, p.TotalPages(), 3, "totalPages mismatch")
	assert.Equal(t, p.HasNext(), true, "expected a next page")
	assert.Equal(t, p.HasPrev(), false, "expected no previous page")
}
