// Package file provides file-based configuration for the planner.
//
// Configuration lives in a TOML file under the irrigo config directory
// (~/.irrigo/config.toml by default). Nested tables are flattened into
// dot-notation keys, so [integrity] algorithm = "blake3" is read as
// "integrity.algorithm".
package file
