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

package database

import (
	"context"
	"fmt"
	"os"

	"github.com/uptrace/bun"
)

// Migrator creates schema objects for all registered models.
type Migrator struct {
	db     *bun.DB
	logger Logger
}

// NewMigrator constructs a Migrator over the given Bun database.
func NewMigrator(db *bun.DB, logger Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// CreateTables creates one table per registered model, in priority order,
// skipping tables that already exist.
func (m *Migrator) CreateTables(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	// silent migration unless explicitly requested
	if _, ok := os.LookupEnv("CRUDO_QUERY_LOG_MIGRATION"); !ok {
		EnableQuerySilent(true)
		defer EnableQuerySilent(false)
	}
	for _, model := range RegisteredModels() {
		instance := model.Instance()
		if _, err := m.db.NewCreateTable().Model(instance).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", instance, err)
		}
		if m.logger != nil {
			m.logger.Debug("Ensured table for model", "model", fmt.Sprintf("%T", instance))
		}
	}
	return nil
}
