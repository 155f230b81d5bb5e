// Package registry keeps a SQLite history of generated podcasts so the CLI
// and API can list and re-open earlier episodes.
//
// The database lives at <data_dir>/podcaster.db and runs in WAL mode. Writes
// retry briefly on SQLITE_BUSY because the CLI and daemon may share the file.
package registry
