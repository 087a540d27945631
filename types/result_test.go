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

import "testing"

func TestSuccessResult(t *testing.T) {
	result := Success([]int{1, 2, 3})
	if !result.OK() || result.Status() != StatusSuccess {
		t.Fatalf("unexpected status: %v", result.Status())
	}
	if len(result.Data()) != 3 {
		t.Fatalf("payload lost: %v", result.Data())
	}
	if len(result.Errors()) != 0 {
		t.Fatal("a success result must carry no violations")
	}
	if result.Input() != nil {
		t.Fatal("a success result must carry no raw input")
	}
}

func TestInvalidResult(t *testing.T) {
	input := JsonObject{"name": "x"}
	errs := Violations{"name": {"value does not satisfy rule 'min=3'"}}
	result := Invalid[*int](input, errs)
	if result.OK() || result.Status() != StatusValidationError {
		t.Fatalf("unexpected status: %v", result.Status())
	}
	if result.Data() != nil {
		t.Fatal("typed payload must stay zero on validation failure")
	}
	if result.Input()["name"] != "x" {
		t.Fatalf("raw input lost: %v", result.Input())
	}
	if len(result.Errors()["name"]) != 1 {
		t.Fatalf("violations lost: %v", result.Errors())
	}
}

func TestStatusString(t *testing.T) {
	if StatusSuccess.String() != "success" || StatusValidationError.String() != "validation_error" {
		t.Fatal("unexpected status rendering")
	}
}
