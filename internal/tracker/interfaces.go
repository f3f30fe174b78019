// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tracker

//go:generate mockgen -source=interfaces.go -destination=../mock/run_repository_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/cartesius/models"
)

// RunRepository persists recorded runs.
type RunRepository interface {
	// SaveRun stores run together with its tags. It returns
	// [ErrRunAlreadyExists] when a run with the same id is stored.
	SaveRun(ctx context.Context, run models.Run) error

	// FindRun returns the run with the given id or [ErrRunNotFound].
	FindRun(ctx context.Context, id string) (models.Run, error)

	// ListRunsByTag returns the runs carrying tag, oldest first.
	ListRunsByTag(ctx context.Context, tag string) ([]models.Run, error)
}
