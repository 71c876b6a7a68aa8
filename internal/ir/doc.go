// Package ir provides the shared value types for runloop.
//
// This package contains value types only. All other internal packages
// import ir; ir imports nothing internal. This keeps the policy engine,
// the forwarder and the CLI free of circular dependencies.
//
// Key design constraints:
//   - Version is immutable and totally ordered
//   - PerformerKind is a closed enumeration; unknown names are rejected at
//     parse time and never become a third member
//   - Configuration is immutable; values are held by identity
//   - Canonical JSON (RFC 8785) is the only serialization used for hashing
package ir
