// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package runconf resolves the configuration of an experiment run.
//
// Sources are merged in the following priority order (later sources
// override earlier ones, recursively for nested mappings):
//  1. Built-in defaults ([DefaultMapping])
//  2. The configuration file, with its parent_config ancestors merged
//     underneath it ([Loader])
//  3. Command-line overrides ([ParseArgs])
//
// Configuration names are looked up in the bundled configuration directory
// first and then from the working directory ([PathResolver]).
//
// The main entry points are [LoadConf] for the process and [Builder] for
// callers that bring their own lookup locations.
package runconf
