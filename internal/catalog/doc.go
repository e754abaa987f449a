// Package catalog persists the canonical film catalogue, alias cache, and
// deduplicated showings in SQLite.
//
// The Store manages database connections, schema initialization, and every
// write path the resolution and ingestion pipeline needs. All shared writes
// are expressed as atomic, conflict-tolerant statements: films use
// insert-or-return-existing, aliases use insert-or-ignore, and showings use
// an upsert keyed on (cinema, film, start time). Concurrent scrape workers
// therefore need no in-process locks; correctness rests on SQLite's
// atomicity guarantees.
//
// Treat this package as the single source of truth for catalogue semantics;
// when you add new columns, update schema.sql and bump schemaVersion.
package catalog
