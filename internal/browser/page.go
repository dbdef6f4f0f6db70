package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	scrollIntoViewScript = `el => el.scrollIntoView({block: 'end'})`
	forceClickScript     = `el => el.click()`
)

type playwrightPage struct {
	page            playwright.Page
	eager           bool
	pageLoadTimeout time.Duration
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	if p.page == nil {
		return fmt.Errorf("браузер не запущен")
	}

	navCtx, cancel := context.WithTimeout(ctx, p.pageLoadTimeout+time.Second)
	defer cancel()

	waitUntil := playwright.WaitUntilStateLoad
	if p.eager {
		waitUntil = playwright.WaitUntilStateDomcontentloaded
	}

	errChan := make(chan error, 1)
	go func() {
		_, err := p.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: waitUntil,
			Timeout:   playwright.Float(float64(p.pageLoadTimeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("navigate timeout after %v: %w", p.pageLoadTimeout, ErrWaitTimeout)
	case err := <-errChan:
		if err != nil {
			return wrapPlaywrightErr(err)
		}
	}
	return nil
}

func (p *playwrightPage) Find(loc Locator) Element {
	return &playwrightElement{
		loc:     loc,
		locator: p.page.Locator(loc.Selector()).First(),
	}
}

func (p *playwrightPage) URL() string {
	if p.page == nil {
		return ""
	}
	return p.page.URL()
}

type playwrightElement struct {
	loc     Locator
	locator playwright.Locator
}

func (e *playwrightElement) Locator() Locator {
	return e.loc
}

func (e *playwrightElement) IsAttached(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n, err := e.locator.Count()
	if err != nil {
		return false, wrapPlaywrightErr(err)
	}
	return n > 0, nil
}

func (e *playwrightElement) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	visible, err := e.locator.IsVisible()
	if err != nil {
		return false, wrapPlaywrightErr(err)
	}
	return visible, nil
}

// Click ждет кликабельности элемента в пределах таймаута по умолчанию у страницы.
func (e *playwrightElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrapPlaywrightErr(e.locator.Click())
}

func (e *playwrightElement) ForceClick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.locator.Evaluate(forceClickScript, nil)
	return wrapPlaywrightErr(err)
}

func (e *playwrightElement) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.locator.Evaluate(scrollIntoViewScript, nil)
	if err != nil {
		return fmt.Errorf("ошибка прокрутки к элементу: %w", wrapPlaywrightErr(err))
	}
	return nil
}

func wrapPlaywrightErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrWaitTimeout, err)
	}
	return err
}
