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
	"testing"
)

type row struct{ N int }

func countingSource(calls *int, total int) ItemSource[row] {
	return func(ctx context.Context, offset, limit int) ([]*row, error) {
		*calls++
		var items []*row
		for i := offset; i < total && i < offset+limit; i++ {
			items = append(items, &row{N: i})
		}
		return items, nil
	}
}

func TestPaginatorFetchesLazilyAndCaches(t *testing.T) {
	calls := 0
	p := NewPaginator(countingSource(&calls, 30), 10)
	if calls != 0 {
		t.Fatal("construction must not touch the item source")
	}

	ctx := context.Background()
	items, err := p.CurrentItems(ctx)
	if err != nil {
		t.Fatalf("currentItems error: %v", err)
	}
	if len(items) != 10 || items[0].N != 0 {
		t.Fatalf("unexpected page content: %d items", len(items))
	}

	if _, err := p.CurrentItems(ctx); err != nil {
		t.Fatalf("currentItems error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("page must be fetched once per offset, got %d calls", calls)
	}
}

func TestPaginatorOffsetMovesThePage(t *testing.T) {
	calls := 0
	p := NewPaginator(countingSource(&calls, 30), 10)
	ctx := context.Background()

	if _, err := p.CurrentItems(ctx); err != nil {
		t.Fatalf("currentItems error: %v", err)
	}
	p.SetItemOffset(20)
	if p.ItemOffset() != 20 {
		t.Fatalf("unexpected offset: %d", p.ItemOffset())
	}
	items, err := p.CurrentItems(ctx)
	if err != nil {
		t.Fatalf("currentItems error: %v", err)
	}
	if len(items) != 10 || items[0].N != 20 {
		t.Fatalf("unexpected page after offset move: %d items", len(items))
	}
	if calls != 2 {
		t.Fatalf("expected two fetches, got %d", calls)
	}

	p.SetItemOffset(-5)
	if p.ItemOffset() != 0 {
		t.Fatal("negative offsets must clamp to zero")
	}
}

func TestPaginatorSourceFailure(t *testing.T) {
	wantErr := errors.New("backend down")
	p := NewPaginator(func(ctx context.Context, offset, limit int) ([]*row, error) {
		return nil, wantErr
	}, 10)
	if _, err := p.CurrentItems(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestPaginatorExtensionPointsDisabled(t *testing.T) {
	p := NewPaginator(countingSource(new(int), 0), 10)
	if err := p.SetCache(struct{}{}); !errors.Is(err, ErrCachingUnsupported) {
		t.Fatalf("expected caching rejection, got %v", err)
	}
	if err := p.SetFilter(struct{}{}); !errors.Is(err, ErrFilteringUnsupported) {
		t.Fatalf("expected filtering rejection, got %v", err)
	}
}

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	if p.GetPage() != 1 || p.GetPageSize() != 10 || p.GetOffset() != 0 {
		t.Fatalf("unexpected defaults: page=%d size=%d offset=%d", p.GetPage(), p.GetPageSize(), p.GetOffset())
	}
	p = NewPageRequest(3, 20, "id ASC")
	if p.GetOffset() != 40 {
		t.Fatalf("unexpected offset: %d", p.GetOffset())
	}
	if len(p.GetOrders()) != 1 {
		t.Fatalf("unexpected orders: %v", p.GetOrders())
	}
}
