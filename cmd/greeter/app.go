package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/archive"
	"github.com/skufinskiy/itnelep-tools/pkg/config"
	"github.com/skufinskiy/itnelep-tools/pkg/fio"
	"github.com/skufinskiy/itnelep-tools/pkg/history"
	"github.com/skufinskiy/itnelep-tools/pkg/lexicon"
	"github.com/skufinskiy/itnelep-tools/pkg/logging"
	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
	"github.com/skufinskiy/itnelep-tools/pkg/position"
)

// app holds what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	lexicon *lexicon.Registry
	history *history.Store
	engine  *pipeline.Engine
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	reg := lexicon.NewRegistry(cfg.Lexicon.Dir, logger)
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	hist, err := history.Open(cfg.History.Path, logger)
	if err != nil {
		return nil, err
	}
	abbr, err := position.Load(cfg.Rules.Locale, cfg.Rules.File)
	if err != nil {
		return nil, err
	}

	matcher := fio.NewMatcher()
	matcher.Threshold = cfg.Defaults.Threshold
	eng, err := pipeline.New(pipeline.Deps{
		Extractor: fio.NewExtractor(nil),
		Matcher:   matcher,
		Abbrev:    abbr,
		History:   hist,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if err := eng.ApplyLexicon(reg, cfg.Inflection.Backend); err != nil {
		return nil, err
	}
	if !eng.InflectionAvailable() {
		logger.Info("inflection backend disabled, names stay nominative")
	}

	return &app{cfg: cfg, logger: logger, lexicon: reg, history: hist, engine: eng}, nil
}

// openArchive returns nil when the archive is disabled and force is false.
func (a *app) openArchive(force bool) (*archive.Store, error) {
	if !a.cfg.Archive.Enabled && !force {
		return nil, nil
	}
	return archive.Open(a.cfg.Archive.Path)
}

func (a *app) close() {
	logging.Sync(a.logger)
}
