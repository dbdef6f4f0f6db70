// Package runner раздает страницы воркерам и проводит каждый тест через
// полный цикл: получение сессии, проверку футера, закрытие и повторы.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"footerCheck/internal/browser"
	"footerCheck/internal/report"
	"footerCheck/internal/retry"
	"footerCheck/internal/session"
	"footerCheck/internal/triage"
	"footerCheck/internal/verify"
)

const DefaultTestName = "testFooterElements"

// Triager классифицирует окончательно упавший тест. Не влияет на исход.
type Triager interface {
	Classify(ctx context.Context, f triage.Failure) (*triage.Analysis, error)
}

type Options struct {
	RunID       string
	TestName    string
	Workers     int
	OSLabel     string
	WaitTimeout time.Duration
	TestRetries int
}

// CaseResult - итог одного теста после всех повторов.
type CaseResult struct {
	URL      string
	Status   report.Status
	Attempts int
	Worker   int
	Err      error
	Verdict  triage.Verdict
	Duration time.Duration
}

type Summary struct {
	RunID    string
	Browser  string
	Cases    []CaseResult
	Passed   int
	Failed   int
	Duration time.Duration
}

func (s *Summary) OK() bool {
	return s.Failed == 0
}

type Runner struct {
	manager  *session.Manager
	engine   *verify.Engine
	reporter report.Reporter
	triager  Triager
	opts     Options
	log      *zap.Logger
}

func New(manager *session.Manager, engine *verify.Engine, reporter report.Reporter, log *zap.Logger, opts Options) *Runner {
	if reporter == nil {
		reporter = report.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TestName == "" {
		opts.TestName = DefaultTestName
	}
	if opts.TestRetries < 0 {
		opts.TestRetries = 0
	}
	return &Runner{
		manager:  manager,
		engine:   engine,
		reporter: reporter,
		opts:     opts,
		log:      log,
	}
}

func (r *Runner) WithTriage(t Triager) *Runner {
	r.triager = t
	return r
}

// Run проверяет все urls в браузере browserParam. Неизвестный браузер
// прерывает весь прогон до запуска воркеров. Падения тестов не являются
// ошибкой Run: они попадают в Summary.
func (r *Runner) Run(ctx context.Context, browserParam string, urls []string) (*Summary, error) {
	started := time.Now()
	runID := r.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := &Summary{RunID: runID, Browser: browserParam}

	kind, err := browser.ParseKind(browserParam)
	if err != nil {
		r.log.Error("Прогон прерван: неизвестный браузер", zap.String("browser", browserParam))
		return summary, err
	}
	summary.Browser = kind.String()

	workers := min(r.opts.Workers, max(len(urls), 1))
	slots := make([]*session.Slot, workers)
	for i := range slots {
		slots[i] = session.NewSlot(i+1, r.opts.OSLabel, r.opts.WaitTimeout)
	}
	// завершающая очистка после всех тестов класса
	defer r.manager.ReleaseAll(slots...)

	r.log.Info("Старт прогона",
		zap.String("run_id", runID),
		zap.String("browser", kind.String()),
		zap.String("os", r.opts.OSLabel),
		zap.Int("workers", workers),
		zap.Int("pages", len(urls)))

	jobs := make(chan int)
	results := make([]CaseResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range urls {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for _, slot := range slots {
		g.Go(func() error {
			for i := range jobs {
				res, err := r.runTest(gctx, runID, kind, slot, urls[i])
				results[i] = res
				if err != nil {
					return err
				}
			}
			return nil
		})
	}

	err = g.Wait()

	for _, res := range results {
		if res.URL == "" {
			continue
		}
		summary.Cases = append(summary.Cases, res)
		if res.Status == report.StatusPass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	summary.Duration = time.Since(started)

	r.log.Info("Прогон завершен",
		zap.String("run_id", runID),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration))
	return summary, err
}

// runTest выполняет один экземпляр теста со своим счетчиком повторов.
// Ошибка возвращается только если прогон нужно остановить.
func (r *Runner) runTest(ctx context.Context, runID string, kind browser.Kind, slot *session.Slot, url string) (CaseResult, error) {
	analyzer := retry.NewWithLimit(r.opts.TestRetries)
	started := time.Now()
	result := CaseResult{URL: url, Worker: slot.ID}

	for attempt := 1; ; attempt++ {
		c := report.NewCase(runID, r.opts.TestName, url, kind.String(), slot.OSLabel, attempt)
		c.Worker = slot.ID
		result.Attempts = attempt

		res, err := r.attempt(ctx, slot, c)
		c.Finished = time.Now()

		if err == nil {
			c.Status = report.StatusPass
			r.reporter.FinishCase(ctx, c)
			result.Status = report.StatusPass
			result.Err = nil
			result.Duration = time.Since(started)
			return result, nil
		}

		c.Failure = err.Error()
		var ae *verify.AssertionError
		if errors.As(err, &ae) {
			c.FailedLocator = ae.Locator.Name
		}
		result.Err = err
		result.Status = report.StatusFail
		result.Duration = time.Since(started)

		if errors.Is(err, browser.ErrUnsupportedKind) {
			c.Status = report.StatusFail
			r.reporter.FinishCase(ctx, c)
			return result, err
		}
		if ctx.Err() != nil {
			c.Status = report.StatusSkip
			r.reporter.FinishCase(ctx, c)
			return result, ctx.Err()
		}

		if analyzer.ShouldRetry(err) {
			// повторяемая попытка помечается пропущенной
			c.Status = report.StatusSkip
			r.reporter.FinishCase(ctx, c)
			r.log.Warn(fmt.Sprintf("Retry %d of %d for %s", analyzer.Retries(), analyzer.Limit(), url),
				zap.Int("worker", slot.ID), zap.Error(err))
			continue
		}

		c.Status = report.StatusFail
		result.Verdict = r.classify(ctx, c, res, attempt)
		c.Triage = string(result.Verdict)
		r.reporter.FinishCase(ctx, c)
		return result, nil
	}
}

// attempt - один проход setup → тест → teardown. Сессия закрывается всегда.
func (r *Runner) attempt(ctx context.Context, slot *session.Slot, c *report.Case) (*verify.Result, error) {
	r.reporter.StartCase(ctx, c)

	if _, err := r.manager.Acquire(ctx, slot, c.Browser); err != nil {
		r.reporter.Step(ctx, c, "Driver initialization failed")
		return nil, err
	}
	defer r.manager.Release(slot)

	res, err := r.engine.VerifyFooter(ctx, slot, c.URL)
	for _, s := range res.Steps {
		r.reporter.Step(ctx, c, s.Name)
	}
	return res, err
}

func (r *Runner) classify(ctx context.Context, c *report.Case, res *verify.Result, attempts int) triage.Verdict {
	if r.triager == nil {
		return ""
	}

	f := triage.Failure{
		CaseID:   c.ID,
		URL:      c.URL,
		Browser:  c.Browser,
		OS:       c.OS,
		Locator:  c.FailedLocator,
		Error:    c.Failure,
		Attempts: attempts,
	}
	if res != nil {
		for _, s := range res.Steps {
			f.Steps = append(f.Steps, s.Name+" ("+s.Outcome.String()+")")
		}
	}

	analysis, err := r.triager.Classify(ctx, f)
	if err != nil {
		r.log.Warn("Не удалось классифицировать падение", zap.String("url", c.URL), zap.Error(err))
		return triage.VerdictUnknown
	}
	r.log.Info("Классификация падения",
		zap.String("url", c.URL),
		zap.String("verdict", string(analysis.Verdict)),
		zap.Float64("confidence", analysis.Confidence),
		zap.String("reasoning", analysis.Reasoning))
	return analysis.Verdict
}
