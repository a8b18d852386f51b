// Package resultcache persists computed feature metrics in SQLite.
//
// Metrics are keyed by file identity (path, size, mtime) plus feature name
// and classifier category, so repeat analyses of an unchanged file are
// served without re-running inference. A lock file guards concurrent CLI
// invocations against racing schema creation.
package resultcache
