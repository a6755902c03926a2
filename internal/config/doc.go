// Package config loads, normalizes, and validates clipgrid configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CLIPGRID_STATE_DIR
// environment override. The Config type centralizes the layout metrics,
// presentation timings, media probing, and order-file knobs the CLI and the
// interactive UI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
