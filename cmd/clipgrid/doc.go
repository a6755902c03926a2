// Package main hosts the clipgrid CLI entrypoint and command graph.
//
// The Cobra command tree scans clip folders, prints grid layouts, manages
// clip-order.txt files and their history, and launches the interactive
// presenter. Configuration resolution and logging setup live in the command
// context so subcommands only deal with their own flags and output.
//
// Keep this package thin: behaviour belongs in the internal packages and is
// surfaced here through commands and flags.
package main
