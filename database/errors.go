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
	"strings"

	"github.com/go-sql-driver/mysql"
)

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

var mysqlErrNumbers = map[uint16]SQLError{
	1054: NoColumnErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1146: NoTableErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
}

// substring rules cover Postgres SQLSTATE text and SQLite message shapes
type sqlErrorRule struct {
	kind    SQLError
	needles []string
}

var sqlErrorRules = []sqlErrorRule{
	{NoColumnErr, []string{"sqlstate 42703"}},
	{NoColumnErr, []string{"undefined column"}},
	{NoColumnErr, []string{"no such column"}},
	{NoTableErr, []string{"sqlstate 42p01"}},
	{NoTableErr, []string{"undefined table"}},
	{NoTableErr, []string{"no such table"}},
	{ExistTableErr, []string{"already exists", "table"}},
	{ExistTableErr, []string{"already exists", "relation"}},
	{DuplicateKeyErr, []string{"duplicate key value"}},
	{DuplicateKeyErr, []string{"unique constraint failed"}},
	{DuplicateKeyErr, []string{"sqlstate 23505"}},
	{NotNullViolationErr, []string{"not-null constraint"}},
	{NotNullViolationErr, []string{"not null constraint failed"}},
	{NotNullViolationErr, []string{"sqlstate 23502"}},
	{ForeignKeyViolationErr, []string{"foreign key violation"}},
	{ForeignKeyViolationErr, []string{"foreign key constraint failed"}},
	{ForeignKeyViolationErr, []string{"sqlstate 23503"}},
	{CheckConstraintViolationErr, []string{"check constraint"}},
	{CheckConstraintViolationErr, []string{"sqlstate 23514"}},
	{DataTruncatedErr, []string{"string data right truncation"}},
	{DataTruncatedErr, []string{"sqlstate 22001"}},
	{DataTruncatedErr, []string{"data truncated"}},
	{InvalidTypeCastErr, []string{"datatype mismatch"}},
	{InvalidTypeCastErr, []string{"sqlstate 42804"}},
}

// IsSqlError classifies a driver error into a dialect-independent SQLError.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrNumbers[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}

	s := strings.ToLower(err.Error())
	for _, rule := range sqlErrorRules {
		matched := true
		for _, needle := range rule.needles {
			if !strings.Contains(s, needle) {
				matched = false
				break
			}
		}
		if matched {
			return true, rule.kind
		}
	}
	return false, UnknownErr
}
