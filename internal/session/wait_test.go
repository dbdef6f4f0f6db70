package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footerCheck/internal/browser"
	"footerCheck/internal/browser/browsertest"
)

func TestWaiterSucceedsAfterPolls(t *testing.T) {
	w := NewWaiter(time.Second)
	el := browsertest.Visible(browser.CSS("logo", "svg"))
	el.VisibleAfter = 2

	require.NoError(t, w.UntilVisible(context.Background(), el))
	assert.Equal(t, 3, el.VisiblePolls())
}

func TestWaiterTimesOut(t *testing.T) {
	w := NewWaiter(40 * time.Millisecond)
	el := browsertest.Missing(browser.CSS("cookie", "button"))

	start := time.Now()
	err := w.UntilPresent(context.Background(), el)
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrWaitTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Contains(t, err.Error(), "cookie")
}

func TestWaiterKeepsLastError(t *testing.T) {
	w := NewWaiter(20 * time.Millisecond)
	el := browsertest.Visible(browser.CSS("vk", "a"))
	el.VisibleErr = errors.New("frame was detached")

	err := w.UntilVisible(context.Background(), el)
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrWaitTimeout)
	assert.Contains(t, err.Error(), "frame was detached")
}

func TestWaiterHonoursContext(t *testing.T) {
	w := NewWaiter(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := w.Until(ctx, "never", func(context.Context) (bool, error) { return false, nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSlotWaitUsesConfiguredTimeout(t *testing.T) {
	slot := NewSlot(1, "linux", 0)
	assert.Equal(t, DefaultWaitTimeout, slot.Wait().Timeout)
	assert.Equal(t, defaultPollInterval, slot.Wait().Interval)

	short := NewSlot(2, "linux", 100*time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, short.Wait().Timeout)
	assert.Equal(t, 25*time.Millisecond, short.Wait().Interval)
}
