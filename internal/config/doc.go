// Package config provides loading, merging, and validation of the process
// settings of the cartesius command.
//
// Settings are assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Hardcoded defaults
//  2. JSON settings file (path taken from CARTESIUS_SETTINGS_FILE)
//  3. Environment variables (CARTESIUS_ prefix)
//
// Settings only steer the process (where the bundled configurations live,
// log level, run tracker). The run configuration itself is resolved by
// package runconf.
//
// The main entry point is [GetSettings].
package config
