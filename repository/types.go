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

package repository

import (
	"context"
	"errors"

	"github.com/openmast/crudo/types"
)

// ErrNotFound is returned by Retrieve when no entity matches the identifier.
var ErrNotFound = errors.New("entity not found")

// FetchRepository defines the read operations for a generic entity type.
// FetchOne returns (nil, nil) when no entity matches.
type FetchRepository[T any] interface {
	FetchAll(ctx context.Context, exprs ...Expression) ([]*T, error)

	FetchOne(ctx context.Context, exprs ...Expression) (*T, error)

	FetchPairs(ctx context.Context, idField, labelField string, exprs ...Expression) ([]types.Pair, error)

	Retrieve(ctx context.Context, id any) (*T, error)
}

// WriteRepository defines the mutating operations for a generic entity type.
type WriteRepository[T any] interface {
	Create(ctx context.Context, entity *T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, entity *T) error
}

// PageRepository exposes lazy page-offset pagination for listing entities.
type PageRepository[T any] interface {
	FetchPage(ctx context.Context, page *types.PageRequest, exprs ...Expression) (*types.Paginator[T], error)
}

// Repository is the persistence boundary the service layer depends on.
type Repository[T any] interface {
	FetchRepository[T]
	WriteRepository[T]
	PageRepository[T]
}
