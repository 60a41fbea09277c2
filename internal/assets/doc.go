// Package assets keeps one artwork file per registered device.
//
// Existence of <images_dir>/<device>.png is the only freshness signal: present
// files are never re-fetched or overwritten. Absent files are probed on the
// image feed and downloaded when available; devices the feed does not know
// produce a warning asking for a manual upload and never fail the run.
package assets
