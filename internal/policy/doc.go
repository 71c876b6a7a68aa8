// Package policy decides which gesture performer drives a session.
//
// Two facts select the backend: whether the toolchain is Xcode 8 or later,
// and whether the device OS is 9.0 or later. A third, cloud mode, overrides
// both. Each fact is folded into a tier (toolchainLegacy/toolchainModern,
// devicePreAgent/deviceAgentCapable) and the rules match on tiers, so the
// compatibility matrix reads as a table:
//
//	cloud  xcode  device OS  default                   instruments          device_agent
//	yes    any    any        instruments               instruments          instruments
//	no     < 8    < 9.0      instruments               instruments          INCOMPATIBLE_ENVIRONMENT
//	no     < 8    >= 9.0     instruments               instruments          device_agent
//	no     >= 8   < 9.0      INCOMPATIBLE_ENVIRONMENT  INCOMPATIBLE_OPTION  INCOMPATIBLE_ENVIRONMENT
//	no     >= 8   >= 9.0     device_agent              INCOMPATIBLE_OPTION  device_agent
//
// Facts are read lazily: cloud mode consults neither descriptor, and the
// legacy default never asks the device for its version.
//
// Decisions are pure. Nothing is logged, cached or retried, and inputs are
// never modified. Every failure is a *PolicyError returned at the point of
// decision; there is no fallback from one backend to the other.
package policy
