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

// Package shield sanitizes internal failures before they reach callers.
// With a log sink configured, the full diagnostic is written under a
// correlation id and the caller-visible message only references it;
// without one, the diagnostic is embedded verbatim.
package shield

import (
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Prefix opens every sanitized message.
const Prefix = "An error has occurred while running service"

type Shield struct {
	logger *logrus.Logger
}

// New returns a Shield writing diagnostics to the given logger. A nil logger
// switches the shield into embed mode.
func New(logger *logrus.Logger) *Shield {
	return &Shield{logger: logger}
}

// Sanitize turns an internal error into a caller-safe message. The caller is
// expected to append its own operation-specific suffix.
func (s *Shield) Sanitize(err error) string {
	diagnostic := fmt.Sprintf("%v\n%s", err, debug.Stack())
	if s.logger == nil {
		return fmt.Sprintf("%s: %s.", Prefix, diagnostic)
	}
	id := uuid.NewString()
	s.logger.WithField("correlation_id", id).Error(diagnostic)
	return fmt.Sprintf("%s. Details are available in the error log, reference: %s.", Prefix, id)
}
