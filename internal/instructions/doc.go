// Package instructions renders per-device installation pages.
//
// Each page is a fixed nine-step Markdown walkthrough. The flashing step is
// chosen by OEM: Samsung devices get heimdall commands with an upper-cased
// partition flag, every other device gets fastboot commands (super_empty is
// wiped rather than flashed). The download link points at the release mirror
// rather than the link published in the descriptor; only the version folder
// is taken from the descriptor.
package instructions
