// Package ota provides the client for the OTA build-metadata repository.
//
// Branch and per-branch directory listings go through the GitHub REST API;
// per-device build documents are read from the raw content host. Every
// request is a single attempt. Failures come back as *FetchError values that
// carry the branch, device, URL, status, and a capped copy of the response
// body, and wrap one of the services markers (transport, parse, empty) so the
// pipeline can skip the affected unit and keep going.
package ota
