// Package wiki reads device artwork from the LineageOS wiki image tree (or
// any feed with the same <base>/<device>.png layout). It exposes a cheap HEAD
// probe and a streaming fetch so the asset resolver only transfers bodies for
// images that exist.
package wiki
