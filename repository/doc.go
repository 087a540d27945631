// Package repository provides the persistence boundary of the service layer:
// a generic repository abstraction built on Bun covering fetch, key/value
// pair listing, lazy pagination, and entity writes.
package repository
