package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"shelfsort/internal/config"
	"shelfsort/internal/controller"
	"shelfsort/internal/ledger"
	"shelfsort/internal/logging"
	"shelfsort/internal/organizer"
	"shelfsort/internal/scanner"
	"shelfsort/internal/services/deepseek"
)

// runtime bundles the shared pieces of a classification run. Acquiring it
// takes an exclusive lock on the target directory so concurrent runs cannot
// interleave relocations and ledger commits.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *ledger.Store
	lock   *flock.Flock
}

func openRuntime(cfg *config.Config) (*runtime, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(cfg.Paths.TargetDir, ".shelfsort.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another shelfsort run holds the lock for this target directory")
	}

	store, err := ledger.Open(cfg)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, store: store, lock: lock}, nil
}

func (r *runtime) Close() {
	_ = r.store.Close()
	_ = r.lock.Unlock()
}

func (r *runtime) newController() (*controller.Controller, error) {
	client := deepseek.NewClient(deepseek.Config{
		APIURL:         r.cfg.DeepSeek.APIURL,
		APIKey:         r.cfg.DeepSeek.APIKey,
		Model:          r.cfg.DeepSeek.Model,
		ConnectTimeout: time.Duration(r.cfg.DeepSeek.ConnectTimeoutSeconds) * time.Second,
		RequestTimeout: time.Duration(r.cfg.DeepSeek.RequestTimeoutSeconds) * time.Second,
	}, deepseek.WithLogger(r.logger))

	return controller.New(controller.Params{
		Tasks:         r.store,
		Records:       r.store,
		Classifier:    client,
		Relocator:     organizer.New(),
		Categories:    scanner.New(r.cfg.Sort.Extensions),
		TargetDir:     r.cfg.Paths.TargetDir,
		BatchSize:     r.cfg.Sort.BatchSize,
		Fallback:      r.cfg.Sort.FallbackCategory,
		OnItemFailure: r.cfg.Sort.OnItemFailure,
		Logger:        r.logger,
	})
}
