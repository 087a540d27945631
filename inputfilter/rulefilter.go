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

package inputfilter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field declares one named input with its validation rules.
type Field struct {
	Name   string
	Rules  string // validator tag expression, e.g. "required,min=3"
	Ignore bool   // validated but never applied to the entity
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// RuleFilter is the default Filter implementation: a flat set of declared
// fields evaluated with go-playground/validator rules, plus optional named
// sub-groups validated recursively against nested input maps.
type RuleFilter struct {
	grouped    bool
	fields     []Field
	groupNames []string
	groups     map[string]*RuleFilter

	raw      map[string]any
	elements map[string]Element
	messages Messages
}

// New declares a flat rule filter over the given fields.
func New(fields ...Field) *RuleFilter {
	return &RuleFilter{
		fields: fields,
		groups: make(map[string]*RuleFilter),
	}
}

// NewGrouped declares a filter in array/grouped notation. The notation is
// carried only so downstream consumers can refuse it.
func NewGrouped(fields ...Field) *RuleFilter {
	f := New(fields...)
	f.grouped = true
	return f
}

// WithGroup nests a sub-filter under the given input key. The sub-filter
// validates the map found at that key.
func (f *RuleFilter) WithGroup(name string, sub *RuleFilter) *RuleFilter {
	if _, ok := f.groups[name]; !ok {
		f.groupNames = append(f.groupNames, name)
	}
	f.groups[name] = sub
	return f
}

func (f *RuleFilter) Grouped() bool { return f.grouped }

func (f *RuleFilter) Validate(data map[string]any) bool {
	f.raw = data
	f.elements = make(map[string]Element)
	f.messages = make(Messages)

	for _, field := range f.fields {
		value, present := data[field.Name]
		if !present {
			if required(field.Rules) {
				f.messages[field.Name] = append(f.messages[field.Name], "value is required and was not provided")
			}
			continue
		}
		if msgs := checkRules(value, field.Rules); len(msgs) > 0 {
			f.messages[field.Name] = append(f.messages[field.Name], msgs...)
			continue
		}
		f.elements[field.Name] = &fieldElement{value: value, ignore: field.Ignore}
	}

	for _, name := range f.groupNames {
		sub := f.groups[name]
		subData, _ := data[name].(map[string]any)
		if sub.Validate(subData) {
			continue
		}
		for field, msgs := range sub.Messages() {
			key := name + "." + field
			f.messages[key] = append(f.messages[key], msgs...)
		}
	}

	return len(f.messages) == 0
}

func (f *RuleFilter) Elements() map[string]Element {
	if f.elements == nil {
		return map[string]Element{}
	}
	return f.elements
}

func (f *RuleFilter) SubFilters() map[string]Filter {
	subs := make(map[string]Filter, len(f.groups))
	for name, sub := range f.groups {
		subs[name] = sub
	}
	return subs
}

func (f *RuleFilter) UnfilteredValues() map[string]any { return f.raw }

func (f *RuleFilter) Messages() Messages {
	if f.messages == nil {
		return Messages{}
	}
	return f.messages
}

type fieldElement struct {
	value  any
	ignore bool
}

func (e *fieldElement) Value() any    { return e.value }
func (e *fieldElement) Ignored() bool { return e.ignore }

func required(rules string) bool {
	for _, rule := range strings.Split(rules, ",") {
		if strings.TrimSpace(rule) == "required" {
			return true
		}
	}
	return false
}

// checkRules evaluates a single value against a validator tag expression and
// renders the failures as human-readable messages.
func checkRules(value any, rules string) []string {
	if rules == "" {
		return nil
	}
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		if ve.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("value does not satisfy rule '%s=%s'", ve.Tag(), ve.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("value does not satisfy rule '%s'", ve.Tag()))
		}
	}
	return msgs
}
