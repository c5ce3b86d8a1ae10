// Package store is the SQLite-backed expansion cache.
//
// Each entry maps a source hash (template path, template bytes, settings
// fingerprint and IR version, see ir.SourceHash) to the rendered output of
// that template. Only diagnostic-free results are stored, so a hit can be
// written out without running the engine.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads while the generator writes
//   - synchronous=NORMAL: the cache is rebuildable, durability is secondary
//   - busy_timeout=5000: parallel workers share one connection pool
//   - user_version tracks schema migrations
package store
