// Package main hosts the otadocs command.
//
// Invoked with a GitHub token, otadocs performs one full generation pass
// against the Evolution-X OTA repository. The config subcommands scaffold and
// check the TOML configuration, and list prints the last registry snapshot.
// Usage mistakes exit with status 2; any other failure exits with status 1.
package main
