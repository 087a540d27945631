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

package crudo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/openmast/crudo/inputfilter"
	"github.com/openmast/crudo/repository"
	"github.com/openmast/crudo/types"
)

type account struct {
	ID     int64
	Name   string
	Email  string
	Street string
}

func (a *account) SetName(v string)   { a.Name = v }
func (a *account) SetEmail(v string)  { a.Email = v }
func (a *account) SetStreet(v string) { a.Street = v }

func (a *account) ApplyDefaults() error {
	a.Name = "unnamed"
	return nil
}

type fakeRepo struct {
	fetchAllErr error
	entities    []*account
	stored      map[any]*account

	created []*account
	updated []*account
	deleted []*account

	pairCalls [][]repository.Expression
	pairs     []types.Pair

	retrieveCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: map[any]*account{}}
}

func (r *fakeRepo) FetchAll(ctx context.Context, exprs ...repository.Expression) ([]*account, error) {
	if r.fetchAllErr != nil {
		return nil, r.fetchAllErr
	}
	return r.entities, nil
}

func (r *fakeRepo) FetchOne(ctx context.Context, exprs ...repository.Expression) (*account, error) {
	if len(r.entities) == 0 {
		return nil, nil
	}
	return r.entities[0], nil
}

func (r *fakeRepo) FetchPairs(ctx context.Context, idField, labelField string, exprs ...repository.Expression) ([]types.Pair, error) {
	r.pairCalls = append(r.pairCalls, exprs)
	return r.pairs, nil
}

func (r *fakeRepo) FetchPage(ctx context.Context, page *types.PageRequest, exprs ...repository.Expression) (*types.Paginator[account], error) {
	source := func(ctx context.Context, offset, limit int) ([]*account, error) {
		if offset >= len(r.entities) {
			return nil, nil
		}
		end := offset + limit
		if end > len(r.entities) {
			end = len(r.entities)
		}
		return r.entities[offset:end], nil
	}
	return types.NewPaginator(source, page.GetPageSize()), nil
}

func (r *fakeRepo) Retrieve(ctx context.Context, id any) (*account, error) {
	r.retrieveCalls++
	entity, ok := r.stored[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %v", repository.ErrNotFound, id)
	}
	return entity, nil
}

func (r *fakeRepo) Create(ctx context.Context, entity *account) error {
	r.created = append(r.created, entity)
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, entity *account) error {
	r.updated = append(r.updated, entity)
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, entity *account) error {
	r.deleted = append(r.deleted, entity)
	return nil
}

func accountFilter() inputfilter.Filter {
	return inputfilter.New(
		inputfilter.Field{Name: "name", Rules: "required,min=3"},
		inputfilter.Field{Name: "email", Rules: "required,email"},
		inputfilter.Field{Name: "street"},
	)
}

func newTestService(repo *fakeRepo) Service[account] {
	return NewService[account](accountFilter, WithRepository[account](repo))
}

func TestCreateValid(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	result, err := svc.Create(context.Background(), map[string]any{
		"name":   "Alice",
		"email":  "alice@example.com",
		"street": "Main St 7",
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected success, got %v with errors %v", result.Status(), result.Errors())
	}
	entity := result.Data()
	if entity.Name != "Alice" || entity.Email != "alice@example.com" || entity.Street != "Main St 7" {
		t.Fatalf("entity not populated from input: %+v", entity)
	}
	if len(repo.created) != 1 || repo.created[0] != entity {
		t.Fatalf("persistence create not invoked exactly once with the entity")
	}
}

func TestCreateInvalid(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	data := map[string]any{"name": "Al", "email": "not-an-address"}
	result, err := svc.Create(context.Background(), data)
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if result.Status() != types.StatusValidationError {
		t.Fatalf("expected validation error status, got %v", result.Status())
	}
	if len(result.Errors()) == 0 {
		t.Fatal("expected non-empty violations")
	}
	if len(result.Errors()["name"]) == 0 || len(result.Errors()["email"]) == 0 {
		t.Fatalf("expected violations for name and email, got %v", result.Errors())
	}
	for key, value := range data {
		if result.Input()[key] != value {
			t.Fatalf("unfiltered input mismatch for %q: %v", key, result.Input())
		}
	}
	if result.Data() != nil {
		t.Fatal("no entity payload expected on validation failure")
	}
	if len(repo.created) != 0 {
		t.Fatal("persistence must not be touched on invalid input")
	}
}

func TestCreateGroupedFilterFailsHard(t *testing.T) {
	repo := newFakeRepo()
	grouped := func() inputfilter.Filter {
		return inputfilter.NewGrouped(inputfilter.Field{Name: "name", Rules: "required"})
	}
	svc := NewService[account](grouped, WithRepository[account](repo))

	_, err := svc.Create(context.Background(), map[string]any{"name": "Alice"})
	if err == nil {
		t.Fatal("expected a runtime error for grouped filter notation")
	}
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if !strings.Contains(err.Error(), msgCreate) {
		t.Fatalf("error is missing the operation suffix: %v", err)
	}
}

func TestMissingIdentifier(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Retrieve(ctx, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("retrieve: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, map[string]any{"name": "Alice"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("update: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Delete(ctx, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("delete: expected ErrInvalidArgument, got %v", err)
	}
	if repo.retrieveCalls != 0 {
		t.Fatal("persistence must not be touched when the identifier is missing")
	}
}

func TestFetchPairsSelectCollision(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.FetchPairs(context.Background(), "", "", repository.Select("id", "title"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if len(repo.pairCalls) != 0 {
		t.Fatal("persistence fetchPairs must not be invoked on a projection collision")
	}
}

func TestFetchPairsAppendsProjection(t *testing.T) {
	repo := newFakeRepo()
	repo.pairs = []types.Pair{{ID: int64(1), Label: "first"}}
	svc := newTestService(repo)

	result, err := svc.FetchPairs(context.Background(), "", "", repository.Where("active = ?", true))
	if err != nil {
		t.Fatalf("fetchPairs error: %v", err)
	}
	if !result.OK() || len(result.Data()) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(repo.pairCalls) != 1 {
		t.Fatalf("expected exactly one backend call, got %d", len(repo.pairCalls))
	}
	exprs := repo.pairCalls[0]
	selects := 0
	for _, e := range exprs {
		if e.IsSelect() {
			selects++
			cols := e.SelectColumns()
			if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
				t.Fatalf("unexpected projection columns: %v", cols)
			}
		}
	}
	if selects != 1 {
		t.Fatalf("expected exactly one select() expression appended, got %d", selects)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	existing := &account{ID: 7, Name: "old", Email: "old@example.com", Street: "keep me"}
	repo.stored[int64(7)] = existing
	svc := newTestService(repo)

	result, err := svc.Update(context.Background(), int64(7), map[string]any{
		"name":  "renamed",
		"email": "renamed@example.com",
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	entity := result.Data()
	if entity != existing {
		t.Fatal("update must populate the retrieved entity in place")
	}
	if entity.Name != "renamed" || entity.Email != "renamed@example.com" {
		t.Fatalf("fields not applied: %+v", entity)
	}
	if entity.Street != "keep me" {
		t.Fatalf("unspecified field must stay untouched, got %q", entity.Street)
	}
	if len(repo.updated) != 1 || repo.updated[0] != existing {
		t.Fatal("persistence update not invoked exactly once")
	}
}

func TestUpdateInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[int64(7)] = &account{ID: 7}
	svc := newTestService(repo)

	result, err := svc.Update(context.Background(), int64(7), map[string]any{"email": "nope"})
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if result.Status() != types.StatusValidationError {
		t.Fatalf("expected validation error, got %v", result.Status())
	}
	if repo.retrieveCalls != 0 || len(repo.updated) != 0 {
		t.Fatal("a failed validation must never touch persistence")
	}
}

func TestDeleteScenario(t *testing.T) {
	repo := newFakeRepo()
	entity := &account{ID: 42, Name: "doomed"}
	repo.stored[42] = entity
	svc := newTestService(repo)

	result, err := svc.Delete(context.Background(), 42)
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if result.Data() != entity {
		t.Fatal("delete must return the removed entity")
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != entity {
		t.Fatal("persistence delete not invoked exactly once with the entity")
	}
}

func TestFetchAllShieldsBackendFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.fetchAllErr = errors.New("pq: permission denied for relation secret_accounts")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService[account](accountFilter, WithRepository[account](repo), WithLogger[account](logger))

	_, err := svc.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected a shielded error")
	}
	msg := err.Error()
	if !strings.Contains(msg, msgFetchAll) {
		t.Fatalf("error is missing the fixed suffix: %v", msg)
	}
	if strings.Contains(msg, "secret_accounts") {
		t.Fatalf("backend detail leaked through the shield: %v", msg)
	}
}

func TestGetDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	result, err := svc.GetDefault(context.Background())
	if err != nil {
		t.Fatalf("getDefault error: %v", err)
	}
	entity := result.Data()
	if entity == nil || entity.Name != "unnamed" {
		t.Fatalf("expected default-constructed entity, got %+v", entity)
	}
}

func TestFetchPageReturnsLazyPaginator(t *testing.T) {
	repo := newFakeRepo()
	for i := 0; i < 25; i++ {
		repo.entities = append(repo.entities, &account{ID: int64(i + 1)})
	}
	svc := newTestService(repo)

	result, err := svc.FetchPage(context.Background(), types.NewDefaultPageRequest(1, 10))
	if err != nil {
		t.Fatalf("fetchPage error: %v", err)
	}
	paginator := result.Data()
	items, err := paginator.CurrentItems(context.Background())
	if err != nil {
		t.Fatalf("currentItems error: %v", err)
	}
	if len(items) != 10 || items[0].ID != 1 {
		t.Fatalf("unexpected first page: %d items", len(items))
	}

	paginator.SetItemOffset(20)
	items, err = paginator.CurrentItems(context.Background())
	if err != nil {
		t.Fatalf("currentItems error: %v", err)
	}
	if len(items) != 5 || items[0].ID != 21 {
		t.Fatalf("unexpected last page: %d items", len(items))
	}
}
