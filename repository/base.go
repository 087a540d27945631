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
	"database/sql"
	"errors"
	"fmt"

	"github.com/openmast/crudo/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db *bun.DB
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

// applyExpressions maps each opaque expression onto the query: select(...)
// projections become column lists, everything else a WHERE clause.
func applyExpressions(query *bun.SelectQuery, exprs []Expression) *bun.SelectQuery {
	for _, e := range exprs {
		if cols := e.SelectColumns(); cols != nil {
			query = query.Column(cols...)
			continue
		}
		query = query.Where(e.Clause, e.Args...)
	}
	return query
}

func (r *baseRepositoryImpl[T]) FetchAll(ctx context.Context, exprs ...Expression) ([]*T, error) {
	var entities []*T
	query := applyExpressions(r.db.NewSelect().Model(&entities), exprs)
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FetchOne(ctx context.Context, exprs ...Expression) (*T, error) {
	var entity T
	query := applyExpressions(r.db.NewSelect().Model(&entity), exprs).Limit(1)
	err := query.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) FetchPairs(ctx context.Context, idField, labelField string, exprs ...Expression) ([]types.Pair, error) {
	var model T
	query := r.db.NewSelect().Model(&model)
	// A select(...) projection appended by the caller wins over the default
	// (idField, labelField) column pair.
	projected := false
	for _, e := range exprs {
		if cols := e.SelectColumns(); cols != nil {
			query = query.Column(cols...)
			projected = true
			continue
		}
		query = query.Where(e.Clause, e.Args...)
	}
	if !projected {
		query = query.Column(idField, labelField)
	}

	rows, err := query.Rows(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	pairs := make([]types.Pair, 0)
	for rows.Next() {
		var id, label any
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		pairs = append(pairs, types.Pair{ID: id, Label: label})
	}
	return pairs, rows.Err()
}

func (r *baseRepositoryImpl[T]) FetchPage(ctx context.Context, page *types.PageRequest, exprs ...Expression) (*types.Paginator[T], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, 10)
	}
	orders := page.GetOrders()
	source := func(ctx context.Context, offset, limit int) ([]*T, error) {
		var entities []*T
		query := applyExpressions(r.db.NewSelect().Model(&entities), exprs)
		if err := query.Order(orders...).Offset(offset).Limit(limit).Scan(ctx); err != nil {
			return nil, err
		}
		return entities, nil
	}
	paginator := types.NewPaginator(source, page.GetPageSize())
	paginator.SetItemOffset(page.GetOffset())
	return paginator, nil
}

func (r *baseRepositoryImpl[T]) Retrieve(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity *T) error {
	_, err := r.db.NewInsert().Model(entity).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, entity *T) error {
	_, err := r.db.NewDelete().Model(entity).WherePK().Exec(ctx)
	return err
}
