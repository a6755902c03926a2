// Package preflight provides readiness checks for the directories and
// external binaries clipgrid depends on.
//
// The CLI "clipgrid config validate" command runs RunAll and prints one
// status line per check. Checks for optional features (duration probing) are
// reported as warnings rather than failures.
package preflight
