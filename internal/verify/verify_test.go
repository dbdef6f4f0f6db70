package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"footerCheck/internal/browser"
	"footerCheck/internal/browser/browsertest"
	"footerCheck/internal/pages"
	"footerCheck/internal/session"
)

const testWait = 50 * time.Millisecond

// healthyPage - страница, на которой видно все: баннер, футер и оба набора.
func healthyPage(overrides ...*browsertest.Element) *browsertest.Page {
	byName := map[string]*browsertest.Element{}
	for _, el := range overrides {
		byName[el.Locator().Name] = el
	}
	cat := pages.Default()
	all := append([]browser.Locator{cat.Footer, cat.Consent}, cat.Default...)

	var elements []*browsertest.Element
	for _, loc := range all {
		if el, ok := byName[loc.Name]; ok {
			elements = append(elements, el)
			continue
		}
		elements = append(elements, browsertest.Visible(loc))
	}
	return browsertest.NewPage(elements...)
}

func boundSlot(t *testing.T, page *browsertest.Page) *session.Slot {
	t.Helper()
	f := &browsertest.Factory{NewPage: func() *browsertest.Page { return page }}
	m := session.NewManager(f, zaptest.NewLogger(t))
	slot := session.NewSlot(1, "linux", testWait)
	_, err := m.Acquire(context.Background(), slot, "chrome")
	require.NoError(t, err)
	return slot
}

func outcome(t *testing.T, res *Result, name string) StepOutcome {
	t.Helper()
	s, ok := res.Step(name)
	require.True(t, ok, "шаг %q не найден", name)
	return s.Outcome
}

func TestVerifyFooterPassesOnBaseURL(t *testing.T) {
	page := healthyPage()
	slot := boundSlot(t, page)
	e := NewEngine(pages.Default(), zaptest.NewLogger(t))

	res, err := e.VerifyFooter(context.Background(), slot, pages.BaseURL)
	require.NoError(t, err)

	assert.Equal(t, []string{pages.BaseURL}, page.Visited())
	assert.Len(t, res.Checked, 10)
	assert.Equal(t, 1, page.Element(pages.OkCookieButton).Clicks())
	assert.Equal(t, 0, page.Element(pages.OkCookieButton).ForceClicks())
	assert.Equal(t, 1, page.Element(pages.Footer).Scrolls())
	assert.Equal(t, StepPassed, outcome(t, res, "Accepting cookies"))
	assert.Equal(t, StepPassed, outcome(t, res, "Scroll down to footer"))
	assert.Equal(t, StepPassed, outcome(t, res, "Footer is visible on: "+pages.BaseURL))
	assert.Equal(t, StepPassed, outcome(t, res, "Check visibility of element in footer"))
	assert.Positive(t, res.Duration)
}

func TestVerifyFooterElementSets(t *testing.T) {
	cat := pages.Default()
	names := func(locs []browser.Locator) []string {
		var out []string
		for _, l := range locs {
			out = append(out, l.Name)
		}
		return out
	}

	tests := []struct {
		url  string
		want []string
	}{
		{pages.BaseURL, names(cat.Default)},
		{pages.ProjectsURL, names(cat.Default)},
		{pages.BlogURL, names(cat.Default)},
		{pages.JobURL, names(cat.Special)},
		{pages.ContactsURL, names(cat.Special)},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			slot := boundSlot(t, healthyPage())
			res, err := NewEngine(cat, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Checked)
		})
	}
	assert.Len(t, cat.Default, 10)
	assert.Len(t, cat.Special, 5)
}

func TestVerifyFooterConsentAbsent(t *testing.T) {
	page := healthyPage(browsertest.Missing(pages.OkCookieButton))
	slot := boundSlot(t, page)

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.CompanyURL)
	require.NoError(t, err)

	assert.Equal(t, StepIgnored, outcome(t, res, "Accepting cookies"))
	assert.Equal(t, 0, page.Element(pages.OkCookieButton).Clicks())
	assert.Len(t, res.Checked, 10)
}

func TestVerifyFooterConsentFallsBackToScriptClick(t *testing.T) {
	consent := browsertest.Visible(pages.OkCookieButton)
	consent.ClickErr = errors.New("element click intercepted")
	page := healthyPage(consent)
	slot := boundSlot(t, page)

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.BaseURL)
	require.NoError(t, err)

	assert.Equal(t, 1, consent.Clicks())
	assert.Equal(t, 1, consent.ForceClicks())
	assert.Equal(t, StepPassed, outcome(t, res, "Accepting cookies"))
}

func TestVerifyFooterConsentFaultIsSwallowed(t *testing.T) {
	consent := browsertest.Visible(pages.OkCookieButton)
	consent.ClickErr = errors.New("intercepted")
	consent.ForceClickErr = errors.New("detached")
	slot := boundSlot(t, healthyPage(consent))

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.BaseURL)
	require.NoError(t, err)

	s, ok := res.Step("Accepting cookies")
	require.True(t, ok)
	assert.Equal(t, StepFailed, s.Outcome)
	assert.ErrorContains(t, s.Err, "detached")
}

func TestVerifyFooterJobPageMissingElement(t *testing.T) {
	page := healthyPage(browsertest.Missing(pages.TelegramButton))
	slot := boundSlot(t, page)

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.JobURL)
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, pages.JobURL, ae.URL)
	assert.Equal(t, "TELEGRAMBUTTON", ae.Locator.Name)
	assert.ErrorIs(t, err, browser.ErrWaitTimeout)
	assert.Contains(t, err.Error(), "TELEGRAMBUTTON")
	assert.Contains(t, err.Error(), pages.JobURL)

	// Проверка останавливается на первом провале.
	assert.Equal(t, []string{"COPYRIGHTS", "BEHANCEBUTTON", "DPROFILEBUTTON", "TELEGRAMBUTTON"}, res.Checked)
	assert.Equal(t, StepFailed, outcome(t, res, "Check visibility of footer element TELEGRAMBUTTON"))
	assert.Zero(t, page.Element(pages.VKButton).VisiblePolls())
}

func TestVerifyFooterHiddenElementFails(t *testing.T) {
	slot := boundSlot(t, healthyPage(browsertest.Hidden(pages.FooterText)))

	_, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.FieldsURL)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "FOOTERTEXT", ae.Locator.Name)
}

func TestVerifyFooterRegionFailureIsAbsorbed(t *testing.T) {
	page := healthyPage(browsertest.Missing(pages.Footer))
	slot := boundSlot(t, page)

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.BaseURL)
	require.NoError(t, err)

	assert.Equal(t, StepFailed, outcome(t, res, "Scroll down to footer"))
	assert.Equal(t, StepFailed, outcome(t, res, "Can't scroll to footer"))
	assert.Len(t, res.Checked, 10)
}

func TestVerifyFooterRegionFailureStrict(t *testing.T) {
	footer := browsertest.Visible(pages.Footer)
	footer.ScrollErr = errors.New("script error")
	slot := boundSlot(t, healthyPage(footer))

	e := NewEngine(nil, zaptest.NewLogger(t))
	e.StrictFooter = true
	res, err := e.VerifyFooter(context.Background(), slot, pages.BaseURL)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "FOOTER", ae.Locator.Name)
	assert.Empty(t, res.Checked)
}

func TestVerifyFooterNavigationError(t *testing.T) {
	page := healthyPage()
	page.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	slot := boundSlot(t, page)

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.BlogURL)

	var ne *NavigationError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, pages.BlogURL, ne.URL)
	assert.NotErrorAs(t, err, new(*AssertionError))
	assert.Empty(t, res.Checked)
	assert.Equal(t, StepFailed, outcome(t, res, "Open "+pages.BlogURL+" page"))
}

func TestVerifyFooterWithoutSession(t *testing.T) {
	slot := session.NewSlot(1, "linux", testWait)

	res, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(context.Background(), slot, pages.BaseURL)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, pages.BaseURL, res.URL)
}

func TestVerifyFooterCancelledContext(t *testing.T) {
	slot := boundSlot(t, healthyPage())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(nil, zaptest.NewLogger(t)).VerifyFooter(ctx, slot, pages.BaseURL)
	assert.ErrorIs(t, err, context.Canceled)
}
