// Package registry aggregates which devices ship on which OTA branches.
//
// The Builder walks branches in upstream order and records each listed device
// against the branch, tolerating per-branch listing failures. The resulting
// Registry is the run's single authoritative aggregate: it is persisted as a
// JSON snapshot with sorted device keys and then handed explicitly to the
// asset resolver and instruction synthesizer.
package registry
