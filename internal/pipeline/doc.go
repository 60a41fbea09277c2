// Package pipeline sequences one otadocs run.
//
// A run holds an advisory lock on the output directory, lists the OTA
// branches, rebuilds and saves the device registry, fills in missing device
// images, and rewrites every instruction page. Each step runs to completion
// before the next begins; everything after the branch listing tolerates
// per-device failures.
package pipeline
