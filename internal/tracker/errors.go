// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tracker

import "errors"

// Sentinel errors returned by repository methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrRunAlreadyExists is returned when a run with the same id is already
	// recorded.
	ErrRunAlreadyExists = errors.New("run already exists")

	// ErrRunNotFound is returned when no run matches the requested id.
	ErrRunNotFound = errors.New("run was not found")
)

// Low-level database operation errors.
var (
	ErrOpeningDatabase      = errors.New("error opening run registry")
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan run row")
)
