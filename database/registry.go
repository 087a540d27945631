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
	"sort"
	"sync"
)

var defaultRegistry = &modelRegistry{}

// Model is a registered entity model. Instance returns a struct pointer
// compatible with Bun; Priority orders table creation, lower values first.
type Model interface {
	Instance() interface{}
	Priority() int
}

type modelRegistry struct {
	models []Model
	mutex  sync.RWMutex
}

func (r *modelRegistry) register(model Model) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

func (r *modelRegistry) sorted() []Model {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]Model, len(r.models))
	copy(result, r.models)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type modelAdapter struct {
	instance interface{}
	priority int
}

func (a *modelAdapter) Instance() interface{} { return a.instance }
func (a *modelAdapter) Priority() int         { return a.priority }

// RegisterModel adds an entity model to the default registry so that startup
// migration and Bun model registration pick it up.
func RegisterModel(instance interface{}, priority int) {
	defaultRegistry.register(&modelAdapter{instance: instance, priority: priority})
}

// RegisteredModels returns all registered models sorted by ascending
// priority.
func RegisteredModels() []Model {
	return defaultRegistry.sorted()
}

// RegisteredModelInstances returns the underlying struct pointers of all
// registered models in priority order.
func RegisteredModelInstances() []interface{} {
	models := RegisteredModels()
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
