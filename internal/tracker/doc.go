// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tracker records resolved run configurations in a SQL run registry
// so that runs can later be looked up by id or by tag.
//
// The registry is a SQLite file or a PostgreSQL database, chosen by the DSN
// passed to [Open]. The schema is created by the migrations package.
package tracker
