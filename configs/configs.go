// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package configs holds the bundled run configurations shipped with the
// binary. They are the first place a configuration name is looked up.
package configs

import "embed"

// FS is the bundled configuration directory.
//
//go:embed *.yaml
var FS embed.FS
