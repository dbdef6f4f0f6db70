package session

import (
	"context"
	"fmt"
	"time"

	"footerCheck/internal/browser"
)

const defaultPollInterval = 250 * time.Millisecond

// Condition проверяет состояние страницы один раз.
type Condition func(ctx context.Context) (bool, error)

// Waiter опрашивает условие с фиксированным интервалом до истечения границы.
// Граница - это потолок опроса, а не отмена: начатое действие браузера не прерывается.
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
}

func NewWaiter(timeout time.Duration) *Waiter {
	interval := defaultPollInterval
	if timeout < 4*interval {
		interval = timeout / 4
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Waiter{Timeout: timeout, Interval: interval}
}

// Until ждет, пока cond вернет true. Ошибки условия не прерывают опрос:
// последняя из них попадает в текст ошибки таймаута.
func (w *Waiter) Until(ctx context.Context, what string, cond Condition) error {
	deadline := time.Now().Add(w.Timeout)
	var lastErr error

	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr != nil {
				return fmt.Errorf("%s: не дождались за %v: %w (последняя ошибка: %v)", what, w.Timeout, browser.ErrWaitTimeout, lastErr)
			}
			return fmt.Errorf("%s: не дождались за %v: %w", what, w.Timeout, browser.ErrWaitTimeout)
		}

		timer := time.NewTimer(min(w.Interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// UntilPresent ждет появления элемента в DOM.
func (w *Waiter) UntilPresent(ctx context.Context, el browser.Element) error {
	return w.Until(ctx, "presence of "+el.Locator().String(), el.IsAttached)
}

// UntilVisible ждет, пока элемент станет видимым.
func (w *Waiter) UntilVisible(ctx context.Context, el browser.Element) error {
	return w.Until(ctx, "visibility of "+el.Locator().String(), el.IsVisible)
}
