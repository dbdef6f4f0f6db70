package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// PlaywrightFactory поднимает отдельный драйвер Playwright и отдельный процесс
// браузера на каждую сессию, чтобы тесты в разных воркерах не делили состояние.
type PlaywrightFactory struct {
	cfg     Config
	options Options
	log     *zap.Logger
}

func New(cfg Config, options Options, log *zap.Logger) *PlaywrightFactory {
	// Установка дефолтных таймаутов
	if cfg.PageLoadTimeout == 0 {
		cfg.PageLoadTimeout = 30 * time.Second
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &PlaywrightFactory{
		cfg:     cfg,
		options: options,
		log:     log,
	}
}

func (f *PlaywrightFactory) runOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		DriverDirectory: f.cfg.BrowsersPath,
		Verbose:         false,
		Stdout:          io.Discard,
		Stderr:          io.Discard,
	}
}

// Install скачивает драйвер и браузеры. Нужен один раз на машину.
func (f *PlaywrightFactory) Install() error {
	opts := f.runOptions()
	opts.Browsers = []string{string(EngineChromium), string(EngineFirefox), string(EngineWebKit)}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

func (f *PlaywrightFactory) getEnvMap() map[string]string {
	if f.cfg.Display != "" && !f.cfg.Headless {
		return map[string]string{
			"DISPLAY": f.cfg.Display,
		}
	}
	return nil
}

func (f *PlaywrightFactory) browserType(pw *playwright.Playwright, engine Engine) playwright.BrowserType {
	switch engine {
	case EngineFirefox:
		return pw.Firefox
	case EngineWebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// Create запускает сессию. Если запуск оборвался на середине, все уже поднятые
// части закрываются до возврата ошибки.
func (f *PlaywrightFactory) Create(ctx context.Context, kind Kind) (Session, error) {
	profile, err := f.options.For(kind)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run(f.runOptions())
	if err != nil {
		return nil, startupErr(kind, "driver", err)
	}

	s := &playwrightSession{kind: kind, pw: pw, profile: profile}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(profile.Headless),
		Args:     profile.Args,
		Timeout:  playwright.Float(float64(f.cfg.PageLoadTimeout.Milliseconds())),
	}
	if profile.Channel != "" {
		launchOpts.Channel = playwright.String(profile.Channel)
	}
	if env := f.getEnvMap(); env != nil {
		launchOpts.Env = env
	}

	br, err := f.browserType(pw, profile.Engine).Launch(launchOpts)
	if err != nil {
		return nil, f.abort(s, startupErr(kind, "launch", err))
	}
	s.browser = br

	bctx, err := br.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  profile.ViewportWidth,
			Height: profile.ViewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(profile.IgnoreHTTPSErrors),
	})
	if err != nil {
		return nil, f.abort(s, startupErr(kind, "context", err))
	}
	s.context = bctx

	page, err := bctx.NewPage()
	if err != nil {
		return nil, f.abort(s, startupErr(kind, "page", err))
	}
	s.page = &playwrightPage{
		page:            page,
		eager:           profile.Eager,
		pageLoadTimeout: f.cfg.PageLoadTimeout,
	}
	page.SetDefaultNavigationTimeout(float64(f.cfg.PageLoadTimeout.Milliseconds()))
	s.SetDefaultTimeout(f.cfg.ActionTimeout)

	f.log.Debug("Сессия браузера создана",
		zap.String("browser", kind.String()),
		zap.String("engine", string(profile.Engine)),
		zap.String("channel", profile.Channel))

	return s, nil
}

func (f *PlaywrightFactory) abort(s *playwrightSession, cause error) error {
	if err := s.Close(); err != nil {
		f.log.Warn("Не удалось закрыть частично созданную сессию",
			zap.String("browser", s.kind.String()), zap.Error(err))
	}
	return cause
}

type playwrightSession struct {
	kind    Kind
	profile LaunchProfile

	mu      sync.Mutex
	closed  bool
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    *playwrightPage
}

func (s *playwrightSession) Kind() Kind {
	return s.kind
}

func (s *playwrightSession) Page() Page {
	return s.page
}

func (s *playwrightSession) SetDefaultTimeout(d time.Duration) {
	if s.page == nil {
		return
	}
	s.page.page.SetDefaultTimeout(float64(d.Milliseconds()))
}

// Close закрывает контекст, браузер и драйвер. Повторный вызов ничего не делает.
func (s *playwrightSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop driver: %w", err))
		}
	}
	return errors.Join(errs...)
}
