// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/cartesius/internal/logger"
	"github.com/MKhiriev/cartesius/internal/runconf"
	"github.com/MKhiriev/cartesius/models"
)

// ErrNothingToRecord is returned by [Service.Record] for a nil resolution.
var ErrNothingToRecord = errors.New("no resolved configuration to record")

// Service records resolved run configurations.
type Service struct {
	repo   RunRepository
	logger *logger.Logger

	newID func() (uuid.UUID, error)
	now   func() time.Time
}

// NewService constructs a Service storing runs in repo.
func NewService(repo RunRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
		newID:  uuid.NewV7,
		now:    time.Now,
	}
}

// Record stores res as a new run and returns it. The run is tagged with
// [runconf.CreateTags], duplicates removed.
func (s *Service) Record(ctx context.Context, res *runconf.Resolved) (models.Run, error) {
	if res == nil || res.Config == nil {
		return models.Run{}, ErrNothingToRecord
	}

	id, err := s.newID()
	if err != nil {
		return models.Run{}, fmt.Errorf("generating run id: %w", err)
	}

	doc, err := runconf.FormatYAML(res.Config)
	if err != nil {
		return models.Run{}, fmt.Errorf("serializing run configuration: %w", err)
	}

	run := models.Run{
		ID:        id.String(),
		Tags:      dedupe(runconf.CreateTags(res.Config)),
		Chain:     slices.Clone(res.Chain),
		Config:    string(doc),
		CreatedAt: s.now().UTC(),
	}
	if name, ok := res.Config.Get("model_name"); ok && name != nil {
		run.ModelName = fmt.Sprint(name)
	}
	run.ConfigName, _ = res.Config.GetString(runconf.ConfigKey)

	if err = s.repo.SaveRun(ctx, run); err != nil {
		s.logger.Err(err).Str("run_id", run.ID).Msg("failed to record run")
		return models.Run{}, err
	}

	s.logger.Info().Str("run_id", run.ID).Strs("tags", run.Tags).Msg("run recorded")
	return run, nil
}

// ListByTag returns the recorded runs carrying tag, oldest first.
func (s *Service) ListByTag(ctx context.Context, tag string) ([]models.Run, error) {
	return s.repo.ListRunsByTag(ctx, tag)
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
