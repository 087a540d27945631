// Package database bootstraps the object-relational mapper: connection
// management per dialect, pool tuning, health checks, model registration,
// startup table creation, configuration loading, logging, and SQL error
// classification built on top of Bun.
package database
