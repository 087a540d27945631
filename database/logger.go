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
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/openmast/crudo/utils"
)

// Logger is the leveled key/value logging contract of the database layer.
// Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

var (
	globalLogger   Logger
	globalLoggerMu sync.RWMutex
)

// InitLogger installs the global database logger. The first non-nil logger
// wins.
func InitLogger(log Logger) {
	if log == nil {
		return
	}
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = log
	}
}

// GetLogger returns the global database logger, defaulting to a logrus-backed
// one named "database".
func GetLogger() Logger {
	globalLoggerMu.RLock()
	l := globalLogger
	globalLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = &logrusAdapter{logger: utils.GetLogger("database")}
	}
	return globalLogger
}

type logrusAdapter struct {
	logger *logrus.Logger
}

func (a *logrusAdapter) Debug(msg string, fields ...interface{}) {
	a.entry(fields).Debug(msg)
}

func (a *logrusAdapter) Info(msg string, fields ...interface{}) {
	a.entry(fields).Info(msg)
}

func (a *logrusAdapter) Warn(msg string, fields ...interface{}) {
	a.entry(fields).Warn(msg)
}

func (a *logrusAdapter) Error(msg string, fields ...interface{}) {
	a.entry(fields).Error(msg)
}

func (a *logrusAdapter) entry(fields []interface{}) *logrus.Entry {
	logFields := logrus.Fields{}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		logFields[key] = fields[i+1]
	}
	return a.logger.WithFields(logFields)
}
