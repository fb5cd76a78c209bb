// Package app provides the orchestration layer for runlog.
//
// # Overview
//
// This package wires together configuration, log sources, the parsed
// document store and the viewer. Every command goes through Open, which
// loads config, configures logrus, resolves sources and fetches them into
// a state.Store. Run additionally starts the optional poller and the TUI.
//
// # Sources
//
// A SourceSpec may name local files ("-" for stdin), a doublestar glob
// under a directory (useful for unpacked log archives), and GitHub Actions
// jobs, either listed explicitly or as every job of a workflow run.
// Resolver turns the SourceSpec into Targets with stable IDs so refetches
// replace earlier parses in the store instead of adding new entries.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read runlog config
//	       ├─────> SetupLogging()       logrus level and format
//	       ├─────> github.NewClient()   Only for job and run sources
//	       ├─────> Resolver.Resolve()   SourceSpec to []Target
//	       └─────> Load()               Concurrent fetch + parse into Store
//
//	Background Poller (--follow):
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> Target.Fetch()   every interval    │
//	│  └─> store.Put()      reparse if changed│
//	│      └─> UI watches store.Generation()  │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Open or Run):
//   - Configuration file invalid
//   - No sources named, or a source spec that cannot be resolved
//   - Every source failing its first fetch
//
// Recoverable errors (recorded on the store entry and logged):
//   - A single source failing while others load
//   - Fetch failures while following; a round where every source fails
//     backs off exponentially up to 30 seconds
package app
