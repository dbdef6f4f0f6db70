package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"footerCheck/internal/browser"
	"footerCheck/internal/browser/browsertest"
)

// sleepRecorder запоминает паузы вместо реального ожидания.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newTestManager(t *testing.T, f browser.Factory) (*Manager, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	return NewManager(f, zaptest.NewLogger(t), WithSleep(rec.sleep)), rec
}

func TestAcquireFirstAttempt(t *testing.T) {
	f := &browsertest.Factory{}
	m, rec := newTestManager(t, f)
	slot := NewSlot(1, "linux", 0)

	sess, err := m.Acquire(context.Background(), slot, "chrome")
	require.NoError(t, err)

	assert.Same(t, sess, slot.Session())
	assert.Equal(t, browser.KindChrome, slot.Kind())
	assert.Equal(t, 1, f.Calls())
	assert.Empty(t, rec.delays)
	assert.Equal(t, DefaultImplicitWait, f.Sessions()[0].DefaultTimeout())
}

func TestAcquireRetriesWithLinearBackoff(t *testing.T) {
	f := &browsertest.Factory{
		Errs:    []error{browsertest.StartupErr(browser.KindFirefox), browsertest.StartupErr(browser.KindFirefox)},
		Partial: true,
	}
	m, rec := newTestManager(t, f)
	slot := NewSlot(1, "linux", 0)

	sess, err := m.Acquire(context.Background(), slot, "firefox")
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.Equal(t, 3, f.Calls())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)

	sessions := f.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, 1, sessions[0].Closes(), "partial session from attempt 1 must be disposed")
	assert.Equal(t, 1, sessions[1].Closes(), "partial session from attempt 2 must be disposed")
	assert.Equal(t, 0, sessions[2].Closes())
	assert.Same(t, sessions[2], slot.Session())
}

func TestAcquireExhaustsAttempts(t *testing.T) {
	startup := browsertest.StartupErr(browser.KindEdge)
	f := &browsertest.Factory{
		Errs:    []error{startup, startup, startup},
		Partial: true,
	}
	m, rec := newTestManager(t, f)
	slot := NewSlot(2, "linux", 0)

	sess, err := m.Acquire(context.Background(), slot, "edge")
	require.Error(t, err)
	assert.Nil(t, sess)

	assert.ErrorIs(t, err, browser.ErrSessionStartup)
	var acqErr *AcquireError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, 3, acqErr.Attempts)
	assert.Equal(t, "edge", acqErr.Kind)

	assert.Equal(t, 3, f.Calls())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)
	assert.Nil(t, slot.Session())
	assert.Zero(t, f.Open(), "no partial session may leak")
}

func TestAcquireUnsupportedKind(t *testing.T) {
	f := &browsertest.Factory{}
	m, rec := newTestManager(t, f)
	slot := NewSlot(1, "linux", 0)

	_, err := m.Acquire(context.Background(), slot, "opera")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrUnsupportedKind)
	assert.Zero(t, f.Calls())
	assert.Empty(t, rec.delays)
	assert.Nil(t, slot.Session())
}

func TestAcquireFatalErrorIsNotRetried(t *testing.T) {
	f := &browsertest.Factory{
		Errs:    []error{errors.New("permission denied")},
		Partial: true,
	}
	m, rec := newTestManager(t, f)
	slot := NewSlot(1, "linux", 0)

	_, err := m.Acquire(context.Background(), slot, "safari")
	require.Error(t, err)

	var acqErr *AcquireError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, 1, acqErr.Attempts)
	assert.NotErrorIs(t, err, browser.ErrSessionStartup)
	assert.Equal(t, 1, f.Calls())
	assert.Empty(t, rec.delays)
	assert.Zero(t, f.Open())
}

type nilFactory struct{}

func (nilFactory) Create(context.Context, browser.Kind) (browser.Session, error) {
	return nil, nil
}

func TestAcquireNilSession(t *testing.T) {
	m, _ := newTestManager(t, nilFactory{})
	slot := NewSlot(1, "linux", 0)

	_, err := m.Acquire(context.Background(), slot, "chrome")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Nil(t, slot.Session())
}

func TestAcquireStopsOnCancelledContext(t *testing.T) {
	f := &browsertest.Factory{Errs: []error{browsertest.StartupErr(browser.KindChrome)}}
	m := NewManager(f, zaptest.NewLogger(t))
	slot := NewSlot(1, "linux", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Acquire(ctx, slot, "chrome")
	require.Error(t, err)
	assert.Nil(t, slot.Session())
}

func TestAcquireReplacesStaleSession(t *testing.T) {
	f := &browsertest.Factory{}
	m, _ := newTestManager(t, f)
	slot := NewSlot(1, "linux", 0)

	first, err := m.Acquire(context.Background(), slot, "chrome")
	require.NoError(t, err)
	second, err := m.Acquire(context.Background(), slot, "chrome")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, f.Sessions()[0].Closes())
	assert.Same(t, second, slot.Session())
}

func TestReleaseClearsSlot(t *testing.T) {
	f := &browsertest.Factory{}
	m, _ := newTestManager(t, f)
	slot := NewSlot(1, "linux", 0)

	_, err := m.Acquire(context.Background(), slot, "chrome")
	require.NoError(t, err)
	w := slot.Wait()
	require.NotNil(t, w)
	assert.Same(t, w, slot.Wait(), "wait helper is cached per slot")

	m.Release(slot)

	assert.Nil(t, slot.Session())
	assert.Nil(t, slot.wait)
	assert.Equal(t, 1, f.Sessions()[0].Closes())
}

func TestReleaseClearsSlotWhenCloseFails(t *testing.T) {
	page := browsertest.NewPage()
	sess := browsertest.NewSession(browser.KindChrome, page)
	sess.CloseErr = errors.New("browser has disconnected")

	m, _ := newTestManager(t, &browsertest.Factory{})
	slot := NewSlot(1, "linux", 0)
	slot.bind(browser.KindChrome, sess)
	slot.Wait()

	assert.NotPanics(t, func() { m.Release(slot) })
	assert.Nil(t, slot.Session())
	assert.Nil(t, slot.wait)
	assert.Equal(t, 1, sess.Closes())
}

func TestReleaseWithoutSessionIsNoop(t *testing.T) {
	m, _ := newTestManager(t, &browsertest.Factory{})
	slot := NewSlot(1, "linux", 0)

	assert.NotPanics(t, func() { m.Release(slot) })
	assert.Nil(t, slot.Session())
}

func TestReleaseAll(t *testing.T) {
	f := &browsertest.Factory{}
	m, _ := newTestManager(t, f)
	bound := NewSlot(1, "linux", 0)
	empty := NewSlot(2, "linux", 0)

	_, err := m.Acquire(context.Background(), bound, "firefox")
	require.NoError(t, err)

	m.ReleaseAll(bound, empty, nil)

	assert.Nil(t, bound.Session())
	assert.Zero(t, f.Open())
}

func TestClassify(t *testing.T) {
	sess := browsertest.NewSession(browser.KindChrome, browsertest.NewPage())

	assert.Equal(t, outcomeBound, classify(sess, nil))
	assert.Equal(t, outcomeTransient, classify(nil, browsertest.StartupErr(browser.KindChrome)))
	assert.Equal(t, outcomeTransient, classify(sess, browsertest.StartupErr(browser.KindChrome)))
	assert.Equal(t, outcomeFatal, classify(nil, &browser.UnsupportedKindError{Value: "x"}))
	assert.Equal(t, outcomeFatal, classify(nil, nil))
	assert.Equal(t, "transient", outcomeTransient.String())
}
