// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command cartesius resolves the configuration of an experiment run and
// prints it as YAML.
//
//	cartesius [--]key=value ...
//
// "config=<file>" selects the configuration file (default.yaml by default);
// every other token overrides a (dotted) key of the resolved configuration.
// Logs go to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/cartesius/internal/checkpoint"
	"github.com/MKhiriev/cartesius/internal/config"
	"github.com/MKhiriev/cartesius/internal/logger"
	"github.com/MKhiriev/cartesius/internal/runconf"
	"github.com/MKhiriev/cartesius/internal/tracker"
	"github.com/MKhiriev/cartesius/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const role = "cartesius"

func main() {
	settings, err := config.GetSettings()
	if err != nil {
		logger.NewLogger(role, zerolog.InfoLevel).Fatal().Err(err).Msg("error getting settings")
	}

	log := logger.NewLogger(role, settings.Level())
	logBuildInfo(log, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	if err = run(context.Background(), os.Args[1:], settings, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("error resolving run configuration")
	}
}

func run(ctx context.Context, args []string, settings *config.Settings, stdout io.Writer, log *logger.Logger) error {
	res, err := runconf.LoadConf(args, settings, log)
	if err != nil {
		return err
	}

	log.Info().
		Strs("tags", runconf.CreateTags(res.Config)).
		Strs("chain", res.Chain).
		Msg("run configuration resolved")

	if path, ok := res.Config.GetString("encoder_ckpt"); ok && path != "" {
		state, err := checkpoint.LoadEncoder(path)
		if err != nil {
			return fmt.Errorf("loading encoder checkpoint: %w", err)
		}
		log.Info().Str("path", path).Int("parameters", len(state)).Msg("encoder checkpoint found")
	}

	if settings.Tracker.DSN != "" {
		if err = record(ctx, res, settings.Tracker, log); err != nil {
			return err
		}
	}

	if err = runconf.WriteYAML(stdout, res.Config); err != nil {
		return fmt.Errorf("writing run configuration: %w", err)
	}
	return nil
}

func record(ctx context.Context, res *runconf.Resolved, cfg config.Tracker, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	db, err := tracker.Open(ctx, cfg.DSN, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx = log.WithContext(ctx)
	svc := tracker.NewService(tracker.NewRunRepository(db, log), log)
	run, err := svc.Record(ctx, res)
	if err != nil {
		return err
	}
	if run.ModelName == "" {
		return nil
	}

	history, err := svc.ListByTag(ctx, run.ModelName)
	if err != nil {
		return err
	}
	log.Info().Str("model_name", run.ModelName).Int("runs", len(history)).Msg("runs recorded for model")
	return nil
}

func logBuildInfo(log *logger.Logger, info models.AppBuildInfo) {
	if !info.Known() {
		log.Debug().Msg("development build")
		return
	}
	log.Debug().
		Str("version", orNA(info.BuildVersion())).
		Str("date", orNA(info.BuildDate())).
		Str("commit", orNA(info.BuildCommit())).
		Msg("build info")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
