// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Only the fields clipgrid needs are requested: container duration and the
// dimensions of video streams. Probe shells out to the configured binary and
// Result exposes helpers that tolerate missing or malformed values.
package ffprobe
