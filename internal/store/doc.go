// Package store provides SQLite-backed persistence for one catalog.
//
// A catalog file holds exactly three tables:
//   - services: one row per registered service, name UNIQUE
//   - transactions: one row per recovered Binder transaction, owned by a
//     service via foreign key (ON DELETE CASCADE)
//   - catalog_meta: a single row stamping the build pass (UUIDv7 id +
//     build time), rewritten on every schema reset
//
// Two catalogs (project and baseline) are always independent files and
// never share a handle. Writes happen only during a build pass, reads
// only during diff/list/dump, so no locking beyond SQLite's defaults is
// required.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
