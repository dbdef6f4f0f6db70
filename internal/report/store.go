package report

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store сохраняет тесты и их шаги (см. database.Repository).
type Store interface {
	SaveCase(ctx context.Context, c *Case) error
	AddStep(ctx context.Context, caseID string, text string, at time.Time) error
}

// StoreReporter пишет отчет в хранилище. Ошибки хранилища только логируются.
type StoreReporter struct {
	store Store
	log   *zap.Logger
}

func NewStoreReporter(store Store, log *zap.Logger) *StoreReporter {
	return &StoreReporter{store: store, log: log}
}

func (r *StoreReporter) StartCase(ctx context.Context, c *Case) {
	if err := r.store.SaveCase(ctx, c); err != nil {
		r.log.Warn("Не удалось сохранить тест", zap.String("case_id", c.ID), zap.Error(err))
	}
}

func (r *StoreReporter) Step(ctx context.Context, c *Case, text string) {
	if err := r.store.AddStep(ctx, c.ID, text, time.Now()); err != nil {
		r.log.Warn("Не удалось сохранить шаг", zap.String("case_id", c.ID), zap.Error(err))
	}
}

func (r *StoreReporter) FinishCase(ctx context.Context, c *Case) {
	if err := r.store.SaveCase(ctx, c); err != nil {
		r.log.Warn("Не удалось обновить тест", zap.String("case_id", c.ID), zap.Error(err))
	}
}
