// Package config loads runloop configuration files into an ir.Configuration.
//
// YAML (.yaml, .yml) and TOML (.toml) are supported. Top-level keys keep the
// order in which they appear in the file. Every file is checked against the
// embedded CUE schema before conversion; unknown keys pass through as decoded
// values.
//
// Two keys are turned into collaborator handles: xcode becomes a
// *toolchain.Xcode and device becomes a *device.Device. Everything else,
// gesture_performer included, is left exactly as decoded.
package config
