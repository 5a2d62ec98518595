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

import "sync"

// Pager tracks the window of a paginated list. The lifecycle per fetch is
// idle -> loading -> idle; a failed fetch leaves the previous window data in
// place. Each fetch is tagged with a sequence token so that a response
// arriving after a newer fetch began is discarded instead of overwriting
// fresher state.
type Pager struct {
	mu         sync.Mutex
	page       int
	limit      int
	total      int
	totalPages int
	loading    bool
	seq        uint64
}

// NewPager returns a pager positioned on the first page
func NewPager(limit int) *Pager {
	return &Pager{page: 1, limit: limit}
}

// Page returns the current page, starting at 1
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Limit returns the page size
func (p *Pager) Limit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.limit
}

// TotalPages returns the page count most recently reported by the server.
// The client never computes this value itself.
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// Total returns the total item count most recently reported by the server
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Loading reports whether a fetch is in flight
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// SetPage moves to the given page. Values outside the known window are
// clamped to the first page.
func (p *Pager) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if page < 1 {
		page = 1
	}
	p.page = page
}

// SetLimit changes the page size used by subsequent fetches
func (p *Pager) SetLimit(limit int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limit < 1 {
		return
	}
	p.limit = limit
}

// ResetToFirstPage rewinds to page 1. Called on every filter change before
// the next fetch is issued.
func (p *Pager) ResetToFirstPage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.page = 1
}

// Begin marks a fetch as started and returns its sequence token
func (p *Pager) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	p.loading = true
	return p.seq
}

// Complete records the window reported by the server. It returns false and
// changes nothing if a newer fetch has begun since the given token was issued.
func (p *Pager) Complete(token uint64, page, limit, total, totalPages int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.seq {
		return false
	}

	p.loading = false
	p.page = page
	p.limit = limit
	p.total = total
	p.totalPages = totalPages
	return true
}

// Fail marks a fetch as finished without touching the window data, leaving
// the previous page visible
func (p *Pager) Fail(token uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.seq {
		return false
	}

	p.loading = false
	return true
}

// HasNext reports whether a further page exists per the server's count
func (p *Pager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.page < p.totalPages
}

// HasPrev reports whether a previous page exists
func (p *Pager) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.page > 1
}
