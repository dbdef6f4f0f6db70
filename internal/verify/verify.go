// Package verify проверяет футер страницы: открывает URL, закрывает баннер
// cookies, прокручивает к футеру и убеждается, что все элементы набора видимы.
package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"footerCheck/internal/browser"
	"footerCheck/internal/pages"
	"footerCheck/internal/session"
)

// ErrNoSession - проверка запущена на слоте без привязанной сессии.
var ErrNoSession = errors.New("в слоте нет сессии")

type StepOutcome int

const (
	StepPassed StepOutcome = iota
	// StepIgnored - шаг не выполнялся, потому что его условие не наступило
	// (например, баннер cookies так и не появился).
	StepIgnored
	StepFailed
)

func (o StepOutcome) String() string {
	switch o {
	case StepPassed:
		return "passed"
	case StepIgnored:
		return "ignored"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type StepRecord struct {
	Name     string
	Outcome  StepOutcome
	Err      error
	Started  time.Time
	Finished time.Time
}

// Result возвращается всегда, даже вместе с ошибкой.
type Result struct {
	URL      string
	Steps    []StepRecord
	Checked  []string
	Duration time.Duration
}

// Step ищет запись шага по имени.
func (r *Result) Step(name string) (StepRecord, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepRecord{}, false
}

// AssertionError - элемент футера не стал видимым. Единственная ошибка
// проверки, после которой тест можно повторить целиком.
type AssertionError struct {
	URL     string
	Locator browser.Locator
	Err     error
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("элемент %s не отображается на %s: %v", e.Locator.Name, e.URL, e.Err)
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// NavigationError - страница не открылась.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("не удалось открыть %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

var errNotDisplayed = errors.New("element is not displayed")

type Engine struct {
	log     *zap.Logger
	catalog *pages.Catalog
	// StrictFooter делает провал шага видимости футера фатальным.
	// По умолчанию провал только логируется.
	StrictFooter bool
}

func NewEngine(catalog *pages.Catalog, log *zap.Logger) *Engine {
	if catalog == nil {
		catalog = pages.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, catalog: catalog}
}

func (e *Engine) Catalog() *pages.Catalog {
	return e.catalog
}

// VerifyFooter выполняет проверку на сессии, привязанной к slot.
func (e *Engine) VerifyFooter(ctx context.Context, slot *session.Slot, url string) (*Result, error) {
	started := time.Now()
	res := &Result{URL: url}
	defer func() { res.Duration = time.Since(started) }()

	sess := slot.Session()
	if sess == nil {
		return res, ErrNoSession
	}
	page := sess.Page()
	wait := slot.Wait()
	log := e.log.With(zap.Int("worker", slot.ID), zap.String("url", url))

	rec := e.begin(res, "Open "+url+" page")
	if err := page.Goto(ctx, url); err != nil {
		rec.finish(StepFailed, err)
		log.Error("Не удалось открыть страницу", zap.Error(err))
		return res, &NavigationError{URL: url, Err: err}
	}
	rec.finish(StepPassed, nil)

	e.dismissConsent(ctx, res, page, wait, log)

	if err := e.revealFooter(ctx, res, page, wait, url, log); err != nil && e.StrictFooter {
		return res, &AssertionError{URL: url, Locator: e.catalog.Footer, Err: err}
	}

	set := e.catalog.ElementsFor(url)
	e.begin(res, "Choose footer option").finish(StepPassed, nil)
	log.Debug("Набор элементов футера",
		zap.Int("count", len(set)),
		zap.Bool("special", e.catalog.IsSpecial(url)))

	check := e.begin(res, "Check visibility of element in footer")
	for _, loc := range set {
		if err := ctx.Err(); err != nil {
			check.finish(StepFailed, err)
			return res, err
		}
		res.Checked = append(res.Checked, loc.Name)

		el := page.Find(loc)
		inner := e.begin(res, "Check visibility of footer element "+loc.Name)
		if err := displayed(ctx, wait, el); err != nil {
			inner.finish(StepFailed, err)
			check.finish(StepFailed, err)
			log.Warn("Элемент футера не отображается",
				zap.String("locator", loc.Name), zap.Error(err))
			return res, &AssertionError{URL: url, Locator: loc, Err: err}
		}
		inner.finish(StepPassed, nil)
	}
	check.finish(StepPassed, nil)
	return res, nil
}

// dismissConsent закрывает баннер cookies. Отсутствие баннера - не ошибка,
// любые другие сбои логируются и не прерывают проверку.
func (e *Engine) dismissConsent(ctx context.Context, res *Result, page browser.Page, wait *session.Waiter, log *zap.Logger) {
	rec := e.begin(res, "Accepting cookies")
	el := page.Find(e.catalog.Consent)

	if err := wait.UntilPresent(ctx, el); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			log.Info("Баннер cookies не появился")
			rec.finish(StepIgnored, nil)
			return
		}
		log.Warn("Ошибка при ожидании баннера cookies", zap.Error(err))
		rec.finish(StepFailed, err)
		return
	}

	if err := el.Click(ctx); err != nil {
		log.Debug("Обычный клик не сработал, кликаем скриптом", zap.Error(err))
		if ferr := el.ForceClick(ctx); ferr != nil {
			log.Warn("Не удалось закрыть баннер cookies", zap.Error(ferr))
			rec.finish(StepFailed, errors.Join(err, ferr))
			return
		}
	}
	rec.finish(StepPassed, nil)
}

// revealFooter прокручивает страницу к футеру и ждет его видимости.
// Возвращаемая ошибка фатальна только при StrictFooter.
func (e *Engine) revealFooter(ctx context.Context, res *Result, page browser.Page, wait *session.Waiter, url string, log *zap.Logger) error {
	rec := e.begin(res, "Scroll down to footer")
	footer := page.Find(e.catalog.Footer)

	err := func() error {
		if err := wait.UntilPresent(ctx, footer); err != nil {
			return err
		}
		if err := footer.ScrollIntoView(ctx); err != nil {
			return err
		}
		return displayed(ctx, wait, footer)
	}()
	if err != nil {
		rec.finish(StepFailed, err)
		e.begin(res, "Can't scroll to footer").finish(StepFailed, err)
		log.Warn("Футер не отображается", zap.Bool("strict", e.StrictFooter), zap.Error(err))
		return err
	}
	rec.finish(StepPassed, nil)
	e.begin(res, "Footer is visible on: "+url).finish(StepPassed, nil)
	return nil
}

// displayed ждет видимости и повторно проверяет ее.
func displayed(ctx context.Context, wait *session.Waiter, el browser.Element) error {
	if err := wait.UntilVisible(ctx, el); err != nil {
		return err
	}
	ok, err := el.IsVisible(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errNotDisplayed
	}
	return nil
}

type stepHandle struct {
	res *Result
	idx int
}

func (e *Engine) begin(res *Result, name string) stepHandle {
	res.Steps = append(res.Steps, StepRecord{Name: name, Started: time.Now()})
	return stepHandle{res: res, idx: len(res.Steps) - 1}
}

func (h stepHandle) finish(outcome StepOutcome, err error) {
	s := &h.res.Steps[h.idx]
	s.Outcome = outcome
	s.Err = err
	s.Finished = time.Now()
}
