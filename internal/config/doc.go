// Package config loads, normalizes, and validates essendeejay configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks. The Config
// type centralizes every knob the CLI needs: model directories, the feature
// catalog location, audio loading parameters, and inference runner settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
