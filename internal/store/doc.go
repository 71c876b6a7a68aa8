// Package store provides SQLite-backed history of runloop runs.
//
// Every `runloop run --db` appends one row describing the configuration that
// was forwarded and the performer the planner selected (or the policy error
// it hit). The log is append-only and is never consulted when deciding a
// performer; decisions are always recomputed from the current facts.
//
// # Ordering
//
//   - Rows carry a logical seq assigned at insert time, never a timestamp
//   - All listing queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
