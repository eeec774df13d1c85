// Package file keeps engine settings in ~/.shiftmap/config.toml.
//
// Keys are addressed with dots ("suggest.weight_type") and stored as TOML
// tables. Every change rewrites the file through a temporary file and a
// rename, so a crash never leaves a half-written config behind.
package file
