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

package utils

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the logrus logger used across the module.
type Logger = logrus.Logger

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}

	defaultLevel     = parseLevel(EnvDefaultString("LOG_LEVEL", "info"))
	consoleLogFormat = EnvDefaultString("CONSOLE_LOG_FORMAT", "text")
)

// GetLogger returns the named logger, creating and registering it on first
// use. All loggers share the env-driven level and format settings.
func GetLogger(name string) *logrus.Logger {
	loggerRegistryMu.RLock()
	logger, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if ok {
		return logger
	}

	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if logger, ok = loggerRegistry[name]; ok {
		return logger
	}

	logger = logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(defaultLevel)
	if strings.EqualFold(consoleLogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}
	loggerRegistry[name] = logger
	return logger
}

func parseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(strings.ToLower(s)))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// EnvDefaultString returns the environment value for key, or the default when
// unset or blank.
func EnvDefaultString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// EnvDefaultBool returns the boolean environment value for key, or the
// default when unset or unparsable.
func EnvDefaultBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}
