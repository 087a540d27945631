/*
 * Copyright 2025 openmast.
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

package types

import (
	"context"
	"errors"
)

// PageRequest describes page-offset pagination settings and ordering.
type PageRequest struct {
	page     int
	pageSize int
	orders   []string // "id ASC", "name DESC"
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = 10
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a PageRequest with ordering settings.
func NewPageRequest(page int, pageSize int, orders ...string) *PageRequest {
	return &PageRequest{page, pageSize, orders}
}

// NewDefaultPageRequest constructs a PageRequest with no ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize)
}

// ItemSource supplies one page of items from the backing store using plain
// (offset, limit) semantics.
type ItemSource[T any] func(ctx context.Context, offset, limit int) ([]*T, error)

// Pagination here is always backend-driven, so the in-memory caching and
// filtering extension points of a generic paginator are deliberately
// unavailable.
var (
	ErrCachingUnsupported   = errors.New("item caching is not supported by a backend-driven paginator")
	ErrFilteringUnsupported = errors.New("item filtering is not supported by a backend-driven paginator")
)

// Paginator exposes page-offset access over a lazily queried item source.
// The current page is fetched at most once per offset and cached until the
// offset moves.
type Paginator[T any] struct {
	source     ItemSource[T]
	pageSize   int
	itemOffset int

	loaded       bool
	loadedOffset int
	items        []*T
}

// NewPaginator wraps an item source into a Paginator with the given page
// size. A non-positive page size falls back to the default of 10.
func NewPaginator[T any](source ItemSource[T], pageSize int) *Paginator[T] {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Paginator[T]{source: source, pageSize: pageSize}
}

// SetItemOffset positions the paginator at the given absolute item offset.
// Negative offsets are clamped to zero.
func (p *Paginator[T]) SetItemOffset(n int) {
	if n < 0 {
		n = 0
	}
	p.itemOffset = n
}

func (p *Paginator[T]) ItemOffset() int { return p.itemOffset }

func (p *Paginator[T]) PageSize() int { return p.pageSize }

// CurrentItems returns the page of items at the current offset, fetching it
// from the item source on first access and caching it until the offset
// changes.
func (p *Paginator[T]) CurrentItems(ctx context.Context) ([]*T, error) {
	if p.loaded && p.loadedOffset == p.itemOffset {
		return p.items, nil
	}
	items, err := p.source(ctx, p.itemOffset, p.pageSize)
	if err != nil {
		return nil, err
	}
	p.items = items
	p.loaded = true
	p.loadedOffset = p.itemOffset
	return p.items, nil
}

// SetCache always fails: the item source is the single authority on page
// content.
func (p *Paginator[T]) SetCache(any) error { return ErrCachingUnsupported }

// SetFilter always fails: filtering belongs in the query expressions, not in
// the paginator.
func (p *Paginator[T]) SetFilter(any) error { return ErrFilteringUnsupported }
