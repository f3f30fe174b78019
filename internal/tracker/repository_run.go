// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/cartesius/internal/logger"
	"github.com/MKhiriev/cartesius/models"
)

var runColumns = []string{"id", "model_name", "config_name", "config", "chain", "created_at"}

// runRepository is the SQL implementation of [RunRepository] over the
// "runs" and "run_tags" tables.
type runRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRunRepository constructs a [RunRepository] backed by db.
func NewRunRepository(db *DB, log *logger.Logger) RunRepository {
	return &runRepository{db: db, logger: log}
}

// SaveRun inserts the run row and its tags in one transaction.
func (r *runRepository) SaveRun(ctx context.Context, run models.Run) error {
	log := logger.FromContext(ctx)

	chain, err := json.Marshal(run.Chain)
	if err != nil {
		return fmt.Errorf("%w: encoding chain: %w", ErrBuildingSQLQuery, err)
	}

	insertRun, runArgs, err := r.db.builder().
		Insert("runs").
		Columns(runColumns...).
		Values(run.ID, run.ModelName, run.ConfigName, run.Config, string(chain), run.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "runRepository.SaveRun").Str("run_id", run.ID).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, insertRun, runArgs...); err != nil {
		if isUniqueViolation(err) {
			return ErrRunAlreadyExists
		}
		log.Err(err).Str("func", "runRepository.SaveRun").Str("run_id", run.ID).Msg("failed to insert run")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if len(run.Tags) > 0 {
		insertTags := r.db.builder().Insert("run_tags").Columns("run_id", "position", "tag")
		for i, tag := range run.Tags {
			insertTags = insertTags.Values(run.ID, i, tag)
		}

		query, args, err := insertTags.ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "runRepository.SaveRun").Str("run_id", run.ID).Msg("failed to insert run tags")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "runRepository.SaveRun").Str("run_id", run.ID).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().Str("func", "runRepository.SaveRun").Str("run_id", run.ID).Int("tags", len(run.Tags)).Msg("run saved")
	return nil
}

// FindRun returns the run with the given id.
func (r *runRepository) FindRun(ctx context.Context, id string) (models.Run, error) {
	query, args, err := r.db.builder().
		Select(runColumns...).
		From("runs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Run{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	run, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Run{}, ErrRunNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "runRepository.FindRun").Str("run_id", id).Msg("failed to read run")
		return models.Run{}, err
	}

	tags, err := r.tagsOf(ctx, []string{id})
	if err != nil {
		return models.Run{}, err
	}
	run.Tags = tags[id]
	return run, nil
}

// ListRunsByTag returns the runs carrying tag ordered by creation time.
func (r *runRepository) ListRunsByTag(ctx context.Context, tag string) ([]models.Run, error) {
	columns := make([]string, len(runColumns))
	for i, c := range runColumns {
		columns[i] = "r." + c
	}

	query, args, err := r.db.builder().
		Select(columns...).
		From("runs r").
		Join("run_tags t ON t.run_id = r.id").
		Where(sq.Eq{"t.tag": tag}).
		OrderBy("r.created_at", "r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "runRepository.ListRunsByTag").Str("tag", tag).Msg("failed to query runs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	runs := make([]models.Run, 0)
	ids := make([]string, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
		ids = append(ids, run.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if len(runs) == 0 {
		return runs, nil
	}

	tags, err := r.tagsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		runs[i].Tags = tags[runs[i].ID]
	}
	return runs, nil
}

// tagsOf returns the ordered tags of every run in ids.
func (r *runRepository) tagsOf(ctx context.Context, ids []string) (map[string][]string, error) {
	query, args, err := r.db.builder().
		Select("run_id", "tag").
		From("run_tags").
		Where(sq.Eq{"run_id": ids}).
		OrderBy("run_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tags := make(map[string][]string, len(ids))
	for _, id := range ids {
		tags[id] = []string{}
	}
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		tags[id] = append(tags[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return tags, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.Run, error) {
	var (
		run   models.Run
		chain string
	)
	err := row.Scan(&run.ID, &run.ModelName, &run.ConfigName, &run.Config, &chain, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Run{}, err
	}
	if err != nil {
		return models.Run{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := json.Unmarshal([]byte(chain), &run.Chain); err != nil {
		return models.Run{}, fmt.Errorf("%w: decoding chain: %w", ErrScanningRow, err)
	}
	return run, nil
}
