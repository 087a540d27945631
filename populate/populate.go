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

package populate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/openmast/crudo/inputfilter"
)

// Populator applies validated filter fields onto entities of one type
// through their Set<Field> mutators. The mutator table is built once at
// construction by scanning the methods of *T, so applying a filter involves
// no name lookups against the type itself.
type Populator[T any] struct {
	entityType string
	mutators   map[string]mutator
}

type mutator struct {
	fn      reflect.Value
	argType reflect.Type
}

// NewPopulator builds the mutator table for entity type T. Eligible mutators
// are exported methods on *T named Set<Field> taking exactly one argument.
func NewPopulator[T any]() *Populator[T] {
	ptrType := reflect.TypeOf((*T)(nil))
	p := &Populator[T]{
		entityType: ptrType.Elem().String(),
		mutators:   make(map[string]mutator),
	}
	for i := 0; i < ptrType.NumMethod(); i++ {
		method := ptrType.Method(i)
		if !strings.HasPrefix(method.Name, "Set") || len(method.Name) == 3 {
			continue
		}
		// receiver + one value argument, no returns
		if method.Type.NumIn() != 2 || method.Type.NumOut() != 0 {
			continue
		}
		p.mutators[method.Name] = mutator{
			fn:      method.Func,
			argType: method.Type.In(1),
		}
	}
	return p
}

// Populate walks the filter's validated fields and applies each non-ignored
// one to the entity via its mutator, then recurses into the nested groups
// with the same entity. A field without a matching mutator is a developer
// contract violation and fails hard.
func (p *Populator[T]) Populate(entity *T, filter inputfilter.Filter) error {
	if filter.Grouped() {
		return fmt.Errorf("input filter %T uses grouped notation, which is not supported", filter)
	}

	target := reflect.ValueOf(entity)
	for field, element := range filter.Elements() {
		if element.Ignored() {
			continue
		}
		name := MutatorName(field)
		m, ok := p.mutators[name]
		if !ok {
			return fmt.Errorf("entity %s has no mutator %s for input field %q", p.entityType, name, field)
		}
		arg, err := coerce(element.Value(), m.argType)
		if err != nil {
			return fmt.Errorf("entity %s mutator %s: %w", p.entityType, name, err)
		}
		m.fn.Call([]reflect.Value{target, arg})
	}

	for _, sub := range filter.SubFilters() {
		if err := p.Populate(entity, sub); err != nil {
			return err
		}
	}
	return nil
}

// MutatorName maps an input field name onto its mutator name, e.g.
// "first_name" -> "SetFirstName".
func MutatorName(field string) string {
	var b strings.Builder
	b.WriteString("Set")
	for _, part := range strings.Split(field, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// coerce adapts a validated input value to the mutator argument type,
// converting between compatible kinds (JSON numbers arrive as float64).
func coerce(value any, argType reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(argType), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() == argType {
		return rv, nil
	}
	if rv.Type().AssignableTo(argType) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(argType) {
		return rv.Convert(argType), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use value of type %T as %s", value, argType)
}
