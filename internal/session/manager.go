package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"footerCheck/internal/browser"
)

const (
	DefaultMaxAttempts  = 3
	DefaultBackoffStep  = 2 * time.Second
	DefaultImplicitWait = 3 * time.Second
)

// ErrNoSession - фабрика вернула пустую сессию без ошибки.
var ErrNoSession = errors.New("factory returned no session")

// AcquireError описывает неудачную попытку получить сессию после всех повторов.
type AcquireError struct {
	Kind     string
	Attempts int
	Err      error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("failed to create %s driver after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

type attemptOutcome int

const (
	outcomeBound attemptOutcome = iota
	outcomeTransient
	outcomeFatal
)

func (o attemptOutcome) String() string {
	switch o {
	case outcomeBound:
		return "bound"
	case outcomeTransient:
		return "transient"
	case outcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// classify - единственное место, где ошибка фабрики превращается в решение цикла.
func classify(sess browser.Session, err error) attemptOutcome {
	switch {
	case err == nil && sess != nil:
		return outcomeBound
	case err != nil && errors.Is(err, browser.ErrSessionStartup):
		return outcomeTransient
	default:
		return outcomeFatal
	}
}

// SleepFunc блокирует воркер на время паузы между попытками.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Manager создает сессии через фабрику с линейной паузой между попытками
// и освобождает их после каждого теста.
type Manager struct {
	factory      browser.Factory
	log          *zap.Logger
	sleep        SleepFunc
	maxAttempts  int
	backoffStep  time.Duration
	implicitWait time.Duration
}

type Option func(*Manager)

func WithSleep(fn SleepFunc) Option {
	return func(m *Manager) { m.sleep = fn }
}

func WithImplicitWait(d time.Duration) Option {
	return func(m *Manager) { m.implicitWait = d }
}

func WithBackoffStep(d time.Duration) Option {
	return func(m *Manager) { m.backoffStep = d }
}

func NewManager(factory browser.Factory, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		factory:      factory,
		log:          log,
		sleep:        sleepCtx,
		maxAttempts:  DefaultMaxAttempts,
		backoffStep:  DefaultBackoffStep,
		implicitWait: DefaultImplicitWait,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire создает сессию для параметра browser и привязывает ее к slot.
// Неизвестный тип браузера - ошибка конфигурации: без повторов и без пауз.
// При любой ошибке частично созданная сессия закрывается, а привязка в slot сбрасывается.
func (m *Manager) Acquire(ctx context.Context, slot *Slot, browserParam string) (browser.Session, error) {
	if slot.Session() != nil {
		m.log.Warn("В слоте осталась сессия от прошлого теста, закрываем",
			zap.Int("worker", slot.ID))
		m.Release(slot)
	}

	kind, err := browser.ParseKind(browserParam)
	if err != nil {
		slot.clear()
		m.log.Error("Неизвестный браузер", zap.String("browser", browserParam), zap.Error(err))
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		m.log.Info(fmt.Sprintf("Attempt %d to create %s driver", attempt, kind),
			zap.Int("worker", slot.ID))

		sess, err := m.factory.Create(ctx, kind)

		switch classify(sess, err) {
		case outcomeBound:
			sess.SetDefaultTimeout(m.implicitWait)
			slot.bind(kind, sess)
			m.log.Info(fmt.Sprintf("%s driver created (attempt %d)", kind.Title(), attempt),
				zap.Int("worker", slot.ID),
				zap.String("os", slot.OSLabel))
			return sess, nil

		case outcomeTransient:
			m.dispose(sess, kind)
			lastErr = err
			if attempt < m.maxAttempts {
				delay := m.backoffStep * time.Duration(attempt)
				m.log.Warn(fmt.Sprintf("Attempt %d failed. Retrying...", attempt),
					zap.Duration("backoff", delay), zap.Error(err))
				if serr := m.sleep(ctx, delay); serr != nil {
					slot.clear()
					return nil, &AcquireError{Kind: kind.String(), Attempts: attempt, Err: serr}
				}
			}

		case outcomeFatal:
			m.dispose(sess, kind)
			slot.clear()
			if err == nil {
				err = ErrNoSession
			}
			m.log.Error("ERROR IN BEFORE METHOD", zap.Int("attempt", attempt), zap.Error(err))
			return nil, &AcquireError{Kind: kind.String(), Attempts: attempt, Err: err}
		}
	}

	slot.clear()
	m.log.Error("Не удалось создать сессию",
		zap.String("browser", kind.String()),
		zap.Int("attempts", m.maxAttempts),
		zap.Error(lastErr))
	return nil, &AcquireError{Kind: kind.String(), Attempts: m.maxAttempts, Err: lastErr}
}

// Release закрывает привязанную сессию. Ошибка закрытия только логируется:
// привязка и помощник ожидания сбрасываются в любом случае.
func (m *Manager) Release(slot *Slot) {
	sess := slot.Session()
	if sess == nil {
		m.log.Info("Driver is null", zap.Int("worker", slot.ID))
		slot.clear()
		return
	}

	defer slot.clear()

	if err := sess.Close(); err != nil {
		m.log.Warn("Ошибка закрытия сессии",
			zap.String("browser", slot.Kind().String()),
			zap.Int("worker", slot.ID),
			zap.Error(err))
		return
	}
	m.log.Info(fmt.Sprintf("%s driver closed", slot.Kind().Title()), zap.Int("worker", slot.ID))
}

// ReleaseAll - завершающая очистка группы: закрывает сессии, пережившие последний тест.
func (m *Manager) ReleaseAll(slots ...*Slot) {
	for _, slot := range slots {
		if slot == nil || slot.Session() == nil {
			continue
		}
		m.log.Warn("Сессия пережила последний тест, закрываем", zap.Int("worker", slot.ID))
		m.Release(slot)
	}
}

func (m *Manager) dispose(sess browser.Session, kind browser.Kind) {
	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		m.log.Debug("Ошибка закрытия частично созданной сессии",
			zap.String("browser", kind.String()), zap.Error(err))
	}
}
