// Package media discovers the video clips a grid session works with.
//
// Scan reads a single folder, keeps files that look like video, orders them
// with a numeric-aware, case-insensitive collation (clip2 before clip10), and
// assigns every clip a stable identifier. Durations are probed through
// ffprobe when a Prober is supplied; probe failures are logged and leave the
// duration unknown rather than failing the scan.
package media
