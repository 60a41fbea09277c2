// Package services defines shared utilities consumed by the upstream clients
// and the generation pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, branch names, and device keys for
//     logging.
//   - The failure taxonomy (transport, parse, empty, asset-missing, usage) as
//     sentinel markers plus the Wrap helper, so callers decide per unit whether
//     to skip or abort with errors.Is.
//
// Upstream clients live in subpackages (ota for build metadata, wiki for
// device images).
package services
