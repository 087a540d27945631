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

// Messages maps a field name to the violation messages collected for it.
type Messages map[string][]string

// Element is a single validated field of a filter session.
type Element interface {
	// Value returns the validated field value.
	Value() any
	// Ignored reports whether the field is excluded from entity population.
	Ignored() bool
}

// Filter is a transient validation session. It is constructed fresh per
// create/update call, validated once, consulted for values or messages, then
// discarded.
type Filter interface {
	// Validate evaluates the raw input against the filter rules and reports
	// whether every field passed.
	Validate(data map[string]any) bool

	// Grouped reports whether the filter uses array/grouped notation. Grouped
	// filters are rejected by the service layer and the populator.
	Grouped() bool

	// Elements returns the flat set of validated fields at this level.
	Elements() map[string]Element

	// SubFilters returns the named nested filter groups.
	SubFilters() map[string]Filter

	// UnfilteredValues returns the raw input exactly as submitted.
	UnfilteredValues() map[string]any

	// Messages returns the per-field violations of the last Validate call.
	Messages() Messages
}

// Factory yields a fresh Filter per validation session.
type Factory func() Filter
