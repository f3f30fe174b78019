// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import "errors"

// Errors returned while resolving a run configuration. Callers should match
// them with [errors.Is]; the returned errors wrap them with the offending file
// name or argument.
var (
	// ErrConfigNotFound is returned when a configuration name resolves to no
	// readable file in the bundled directory or from the working directory.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrMalformedConfig is returned when file content cannot be parsed into
	// a mapping, or when a reserved key (config, parent_config) holds a value
	// of the wrong type.
	ErrMalformedConfig = errors.New("malformed configuration")

	// ErrInheritanceCycle is returned when a parent_config chain revisits a
	// file already on the chain.
	ErrInheritanceCycle = errors.New("configuration inheritance cycle")

	// ErrInvalidArgument is returned for a command-line token that is not a
	// key=value override.
	ErrInvalidArgument = errors.New("invalid command-line override")
)
