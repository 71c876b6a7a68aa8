// Package runloop forwards option bags to an execution engine.
//
// Run is a strict pass-through: the Configuration the caller hands in is the
// value the Executor receives, and whatever the Executor returns is what the
// caller gets back. No key is added, dropped, renamed or rewritten on the
// way. Configuration is immutable, so the caller's value compares Equal to
// its pre-call state after Run returns.
//
// Planner is the Executor the CLI uses. It resolves the gesture performer
// for the configuration and reports a plan instead of launching anything.
package runloop
