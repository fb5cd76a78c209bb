// Package state caches parsed logs between fetches.
//
// # Overview
//
// Fetchers (the initial loader and the follow poller) write into a Store;
// the UI reads Snapshots. Each source has a stable ID chosen by the caller
// ("job:123", a file path, "stdin").
//
//	Producer (loader/poller):      Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ fetch text     │            │                 │
//	│ store.Put()    │───────────→│ store.Snapshot()│
//	│ store.Fail()   │  (mutex)   │ render          │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
// Put hashes the text with xxhash. An identical refetch keeps the previous
// Document and only refreshes FetchedAt; changed text is parsed again and
// replaces the Document. Parsing happens outside the lock.
//
// Fail keeps the last good Document and records the error, counting
// consecutive failures. Two or more make the entry IsOffline.
//
// # Concurrency Model
//
// Store uses a sync.RWMutex and is ready to use as a zero value. Documents
// are immutable so snapshots share them; errors are re-wrapped so callers
// never hold the stored instance.
package state
