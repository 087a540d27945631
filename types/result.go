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

// Status classifies the outcome of a service operation.
type Status int

const (
	StatusSuccess Status = iota
	StatusValidationError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusValidationError:
		return "validation_error"
	default:
		return "unknown"
	}
}

// Violations maps a field name to the list of messages describing why the
// submitted value was rejected.
type Violations map[string][]string

// Result is the uniform outcome envelope returned by every service operation.
// It is built exactly once and never mutated afterwards: the payload is typed
// per operation, the raw input and violations are set only on a validation
// failure.
type Result[P any] struct {
	status Status
	data   P
	input  JsonObject
	errors Violations
}

// Success wraps an operation payload into a successful Result.
func Success[P any](data P) *Result[P] {
	return &Result[P]{status: StatusSuccess, data: data}
}

// Invalid builds a validation-failure Result carrying the unfiltered raw
// input and the per-field violation messages. The typed payload stays zero.
func Invalid[P any](input JsonObject, errs Violations) *Result[P] {
	return &Result[P]{status: StatusValidationError, input: input, errors: errs}
}

func (r *Result[P]) Status() Status { return r.status }

// OK reports whether the operation succeeded, i.e. did not fail validation.
func (r *Result[P]) OK() bool { return r.status == StatusSuccess }

// Data returns the typed payload. It is the zero value of P when the Result
// represents a validation failure.
func (r *Result[P]) Data() P { return r.data }

// Input returns the unfiltered raw input as submitted by the caller. It is
// non-nil only when the Result represents a validation failure.
func (r *Result[P]) Input() JsonObject { return r.input }

// Errors returns the per-field violation messages. Non-empty only when
// Status is StatusValidationError.
func (r *Result[P]) Errors() Violations { return r.errors }

// Pair is a single (identifier, label) row produced by a key/value listing.
type Pair struct {
	ID    any
	Label any
}
