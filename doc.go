// Package driftsql is a parameterized-query templating and streaming
// execution library for relational databases.
//
// Queries are written with named {{placeholder}} markers and executed against
// a provider connection; placeholder values come from heterogeneous sources
// (maps, structs, JSON documents, ordered pair lists) merged with
// last-registered-wins priority. Placeholders are rewritten to
// provider-native bound parameters, never interpolated into the SQL text.
// Results stream lazily as dynamic records, with optional type hints that
// parse JSON or XML columns into nested structures.
//
// The entry point is pkg/executor; provider adapters live under
// pkg/adapters/datasource and register themselves behind build tags
// (postgres, mssql, all_adapters).
package driftsql
