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
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsSqlErrorMySQLNumbers(t *testing.T) {
	is, kind := IsSqlError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	if !is || kind != DuplicateKeyErr {
		t.Fatalf("expected DuplicateKeyErr, got %v (%v)", kind, is)
	}
	is, kind = IsSqlError(&mysql.MySQLError{Number: 9999, Message: "whatever"})
	if !is || kind != UnknownErr {
		t.Fatalf("unknown mysql errno must still classify as sql error, got %v (%v)", kind, is)
	}
}

func TestIsSqlErrorSubstrings(t *testing.T) {
	cases := map[string]SQLError{
		"ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)": DuplicateKeyErr,
		"no such table: products":                 NoTableErr,
		"NOT NULL constraint failed: products.id": NotNullViolationErr,
		"FOREIGN KEY constraint failed":           ForeignKeyViolationErr,
		"datatype mismatch":                       InvalidTypeCastErr,
	}
	for msg, want := range cases {
		is, kind := IsSqlError(errors.New(msg))
		if !is || kind != want {
			t.Fatalf("IsSqlError(%q) = %v, %v; want %v", msg, is, kind, want)
		}
	}
}

func TestIsSqlErrorUnrelated(t *testing.T) {
	is, _ := IsSqlError(errors.New("dial tcp: connection refused"))
	if is {
		t.Fatal("unrelated errors must not classify as sql errors")
	}
}
