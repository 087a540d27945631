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
	"regexp"
	"strings"
)

// Expression is an opaque query criterion passed through to the persistence
// backend. A plain expression is a WHERE clause schema with placeholder
// arguments; a projection expression uses the select(col1,col2) form and is
// mapped to a column list instead.
type Expression struct {
	Clause string
	Args   []interface{}
}

// Where builds a filtering expression from a clause schema and its arguments.
func Where(clause string, args ...interface{}) Expression {
	return Expression{Clause: clause, Args: args}
}

// Select builds a projection expression restricting the fetched columns.
func Select(columns ...string) Expression {
	return Expression{Clause: "select(" + strings.Join(columns, ",") + ")"}
}

var selectPattern = regexp.MustCompile(`(?i)^\s*select\((.*)\)\s*$`)

// IsSelect reports whether the expression is a select(...) projection.
func (e Expression) IsSelect() bool {
	return selectPattern.MatchString(e.Clause)
}

// SelectColumns returns the column names of a select(...) projection, or nil
// when the expression is not one.
func (e Expression) SelectColumns() []string {
	m := selectPattern.FindStringSubmatch(e.Clause)
	if m == nil {
		return nil
	}
	var columns []string
	for _, c := range strings.Split(m[1], ",") {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}
	return columns
}

// ContainsSelect reports whether any of the given expressions is a
// select(...) projection.
func ContainsSelect(exprs []Expression) bool {
	for _, e := range exprs {
		if e.IsSelect() {
			return true
		}
	}
	return false
}
