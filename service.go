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
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/openmast/crudo/database"
	"github.com/openmast/crudo/inputfilter"
	"github.com/openmast/crudo/populate"
	"github.com/openmast/crudo/repository"
	"github.com/openmast/crudo/shield"
	"github.com/openmast/crudo/types"
)

// ErrInvalidArgument marks caller-contract violations detected before any
// persistence interaction: a missing identifier, or a select() projection
// collision on FetchPairs. These are never shielded.
var ErrInvalidArgument = errors.New("invalid argument")

// ServiceError is a shielded runtime failure. Its message carries the
// sanitized diagnostic followed by an operation-specific suffix; the
// underlying cause is deliberately not unwrappable.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// Operation suffixes appended to every shielded failure.
const (
	msgFetchAll   = "Unable to fetch entities matching given criteria."
	msgFetchOne   = "Unable to fetch entity matching given criteria."
	msgFetchPage  = "Unable to paginate entities matching given criteria."
	msgFetchPairs = "Unable to fetch key/value pairs matching given criteria."
	msgGetDefault = "Unable to get default value of the entity."
	msgCreate     = "Unable to create entity."
)

// Defaulter lets an entity type establish its own default field values when
// served through GetDefault.
type Defaulter interface {
	ApplyDefaults() error
}

// Service implements the generic create/retrieve/update/delete/list/paginate
// operations for one entity type. Validation failures are returned in-band as
// a ValidationError Result; every other failure surfaces as an error, either
// ErrInvalidArgument or a shielded *ServiceError.
type Service[T any] interface {
	// FetchAll returns every entity matching the given expressions.
	FetchAll(ctx context.Context, exprs ...repository.Expression) (*types.Result[[]*T], error)

	// FetchOne returns a single matching entity, or a nil payload when none
	// matches.
	FetchOne(ctx context.Context, exprs ...repository.Expression) (*types.Result[*T], error)

	// FetchPage returns a lazy paginator over the matching entities.
	FetchPage(ctx context.Context, page *types.PageRequest, exprs ...repository.Expression) (*types.Result[*types.Paginator[T]], error)

	// FetchPairs returns (id, label) pairs. Empty field names default to
	// "id" and "name". The expressions must not already contain a select()
	// projection.
	FetchPairs(ctx context.Context, idField, labelField string, exprs ...repository.Expression) (*types.Result[[]types.Pair], error)

	// GetDefault returns a freshly default-constructed entity.
	GetDefault(ctx context.Context) (*types.Result[*T], error)

	// Create validates data, populates a new entity, and persists it.
	Create(ctx context.Context, data map[string]any) (*types.Result[*T], error)

	// Retrieve returns the entity with the given identifier.
	Retrieve(ctx context.Context, id any) (*types.Result[*T], error)

	// Update validates data, applies it onto the stored entity, and persists
	// the change.
	Update(ctx context.Context, id any, data map[string]any) (*types.Result[*T], error)

	// Delete removes the entity with the given identifier and returns it.
	Delete(ctx context.Context, id any) (*types.Result[*T], error)
}

type crudService[T any] struct {
	newFilter inputfilter.Factory
	repo      repository.Repository[T]
	shield    *shield.Shield

	populator *populate.Populator[T]
	popOnce   sync.Once
	repoOnce  sync.Once
}

// Option configures a Service at construction time.
type Option[T any] func(*crudService[T])

// WithRepository injects a persistence backend instead of the default Bun
// repository over the global database connection.
func WithRepository[T any](repo repository.Repository[T]) Option[T] {
	return func(s *crudService[T]) { s.repo = repo }
}

// WithLogger routes shielded diagnostics to the given logger under a
// correlation id instead of embedding them in error messages.
func WithLogger[T any](logger *logrus.Logger) Option[T] {
	return func(s *crudService[T]) { s.shield = shield.New(logger) }
}

// NewService returns a Service for entity type T using the given input
// filter factory for create/update validation sessions.
func NewService[T any](filter inputfilter.Factory, opts ...Option[T]) Service[T] {
	s := &crudService[T]{
		newFilter: filter,
		shield:    shield.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *crudService[T]) baseRepo() repository.Repository[T] {
	s.repoOnce.Do(func() {
		if s.repo == nil {
			s.repo = repository.NewRepository[T](database.GetDB())
		}
	})
	return s.repo
}

func (s *crudService[T]) pop() *populate.Populator[T] {
	s.popOnce.Do(func() { s.populator = populate.NewPopulator[T]() })
	return s.populator
}

// runtime shields an internal failure and appends the operation suffix.
func (s *crudService[T]) runtime(err error, suffix string) error {
	return &ServiceError{Message: s.shield.Sanitize(err) + " " + suffix}
}

func (s *crudService[T]) FetchAll(ctx context.Context, exprs ...repository.Expression) (*types.Result[[]*T], error) {
	entities, err := s.baseRepo().FetchAll(ctx, exprs...)
	if err != nil {
		return nil, s.runtime(err, msgFetchAll)
	}
	return types.Success(entities), nil
}

func (s *crudService[T]) FetchOne(ctx context.Context, exprs ...repository.Expression) (*types.Result[*T], error) {
	entity, err := s.baseRepo().FetchOne(ctx, exprs...)
	if err != nil {
		return nil, s.runtime(err, msgFetchOne)
	}
	return types.Success(entity), nil
}

func (s *crudService[T]) FetchPage(ctx context.Context, page *types.PageRequest, exprs ...repository.Expression) (*types.Result[*types.Paginator[T]], error) {
	paginator, err := s.baseRepo().FetchPage(ctx, page, exprs...)
	if err != nil {
		return nil, s.runtime(err, msgFetchPage)
	}
	return types.Success(paginator), nil
}

func (s *crudService[T]) FetchPairs(ctx context.Context, idField, labelField string, exprs ...repository.Expression) (*types.Result[[]types.Pair], error) {
	if idField == "" {
		idField = "id"
	}
	if labelField == "" {
		labelField = "name"
	}
	if repository.ContainsSelect(exprs) {
		return nil, fmt.Errorf("%w: expressions already contain a select() projection", ErrInvalidArgument)
	}
	exprs = append(exprs, repository.Select(idField, labelField))

	pairs, err := s.baseRepo().FetchPairs(ctx, idField, labelField, exprs...)
	if err != nil {
		return nil, s.runtime(err, msgFetchPairs)
	}
	return types.Success(pairs), nil
}

func (s *crudService[T]) GetDefault(ctx context.Context) (*types.Result[*T], error) {
	entity := new(T)
	if d, ok := any(entity).(Defaulter); ok {
		if err := d.ApplyDefaults(); err != nil {
			return nil, s.runtime(err, msgGetDefault)
		}
	}
	return types.Success(entity), nil
}

func (s *crudService[T]) Create(ctx context.Context, data map[string]any) (*types.Result[*T], error) {
	filter, err := s.validationSession()
	if err != nil {
		return nil, s.runtime(err, msgCreate)
	}
	if !filter.Validate(data) {
		return invalid[T](filter), nil
	}

	entity := new(T)
	if err := s.pop().Populate(entity, filter); err != nil {
		return nil, s.runtime(err, msgCreate)
	}
	if err := s.baseRepo().Create(ctx, entity); err != nil {
		return nil, s.runtime(err, msgCreate)
	}
	return types.Success(entity), nil
}

func (s *crudService[T]) Retrieve(ctx context.Context, id any) (*types.Result[*T], error) {
	if id == nil {
		return nil, fmt.Errorf("%w: the identifier is missing", ErrInvalidArgument)
	}
	entity, err := s.baseRepo().Retrieve(ctx, id)
	if err != nil {
		return nil, s.runtime(err, fmt.Sprintf("Unable to retrieve entity with identifier %v.", id))
	}
	return types.Success(entity), nil
}

func (s *crudService[T]) Update(ctx context.Context, id any, data map[string]any) (*types.Result[*T], error) {
	if id == nil {
		return nil, fmt.Errorf("%w: the identifier is missing", ErrInvalidArgument)
	}
	suffix := fmt.Sprintf("Unable to update entity with identifier %v.", id)

	filter, err := s.validationSession()
	if err != nil {
		return nil, s.runtime(err, suffix)
	}
	if !filter.Validate(data) {
		return invalid[T](filter), nil
	}

	entity, err := s.baseRepo().Retrieve(ctx, id)
	if err != nil {
		return nil, s.runtime(err, suffix)
	}
	if err := s.pop().Populate(entity, filter); err != nil {
		return nil, s.runtime(err, suffix)
	}
	if err := s.baseRepo().Update(ctx, entity); err != nil {
		return nil, s.runtime(err, suffix)
	}
	return types.Success(entity), nil
}

func (s *crudService[T]) Delete(ctx context.Context, id any) (*types.Result[*T], error) {
	if id == nil {
		return nil, fmt.Errorf("%w: the identifier is missing", ErrInvalidArgument)
	}
	suffix := fmt.Sprintf("Unable to delete entity with identifier %v.", id)

	entity, err := s.baseRepo().Retrieve(ctx, id)
	if err != nil {
		return nil, s.runtime(err, suffix)
	}
	if err := s.baseRepo().Delete(ctx, entity); err != nil {
		return nil, s.runtime(err, suffix)
	}
	return types.Success(entity), nil
}

// validationSession builds a fresh filter and refuses the unsupported
// grouped notation before any validation runs.
func (s *crudService[T]) validationSession() (inputfilter.Filter, error) {
	if s.newFilter == nil {
		return nil, errors.New("no input filter factory configured for the service")
	}
	filter := s.newFilter()
	if filter.Grouped() {
		return nil, fmt.Errorf("input filter %T uses grouped notation, which is not supported", filter)
	}
	return filter, nil
}

func invalid[T any](filter inputfilter.Filter) *types.Result[*T] {
	return types.Invalid[*T](
		types.JsonObject(filter.UnfilteredValues()),
		types.Violations(filter.Messages()),
	)
}
