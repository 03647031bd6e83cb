// Package storage provides JSON-file persistence for the production catalog.
//
// The store is one JSON object keyed by slug whose values are production
// records. Reads are permissive: a missing or corrupt file is an empty store.
// Writes are explicit; nothing is saved until the caller calls Save. The
// default location is events.json in the working directory.
package storage
