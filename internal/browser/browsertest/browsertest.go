// Package browsertest содержит поддельные реализации browser.Factory, Session,
// Page и Element для тестов без живого браузера.
package browsertest

import (
	"context"
	"errors"
	"sync"
	"time"

	"footerCheck/internal/browser"
)

// Never - значение для AttachedAfter/VisibleAfter: условие не выполнится никогда.
const Never = -1

// Factory отдает ошибки из Errs по порядку вызовов, дальше создает сессии.
type Factory struct {
	mu sync.Mutex

	Errs []error
	// Partial - вместе с ошибкой вернуть частично созданную сессию.
	Partial bool
	// NewPage строит страницу для каждой новой сессии.
	NewPage func() *Page

	calls    int
	sessions []*Session
}

func (f *Factory) Create(ctx context.Context, kind browser.Kind) (browser.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := f.calls
	f.calls++

	page := NewPage()
	if f.NewPage != nil {
		page = f.NewPage()
	}
	s := &Session{kind: kind, page: page}

	if idx < len(f.Errs) && f.Errs[idx] != nil {
		if f.Partial {
			f.sessions = append(f.sessions, s)
			return s, f.Errs[idx]
		}
		return nil, f.Errs[idx]
	}

	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *Factory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Factory) Sessions() []*Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Session(nil), f.sessions...)
}

// Open возвращает число сессий, которые ни разу не закрывались.
func (f *Factory) Open() int {
	n := 0
	for _, s := range f.Sessions() {
		if s.Closes() == 0 {
			n++
		}
	}
	return n
}

type Session struct {
	mu       sync.Mutex
	kind     browser.Kind
	page     *Page
	closes   int
	timeout  time.Duration
	CloseErr error
}

func NewSession(kind browser.Kind, page *Page) *Session {
	return &Session{kind: kind, page: page}
}

func (s *Session) Kind() browser.Kind { return s.kind }
func (s *Session) Page() browser.Page { return s.page }
func (s *Session) FakePage() *Page    { return s.page }

func (s *Session) SetDefaultTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

func (s *Session) DefaultTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return s.CloseErr
}

func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

type Page struct {
	mu       sync.Mutex
	url      string
	visited  []string
	elements map[string]*Element
	GotoErr  error
}

func NewPage(elements ...*Element) *Page {
	p := &Page{elements: make(map[string]*Element)}
	for _, el := range elements {
		p.elements[el.loc.Selector()] = el
	}
	return p
}

func (p *Page) Goto(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.visited = append(p.visited, url)
	if p.GotoErr != nil {
		return p.GotoErr
	}
	p.url = url
	return nil
}

// Find для неизвестного локатора отдает элемент, которого нет в DOM.
func (p *Page) Find(loc browser.Locator) browser.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[loc.Selector()]; ok {
		return el
	}
	el := Missing(loc)
	p.elements[loc.Selector()] = el
	return el
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

// Element возвращает подделку по локатору, если она уже создана.
func (p *Page) Element(loc browser.Locator) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elements[loc.Selector()]
}

type Element struct {
	mu  sync.Mutex
	loc browser.Locator

	// AttachedAfter/VisibleAfter - сколько опросов вернут false до первого true.
	AttachedAfter int
	VisibleAfter  int

	ClickErr      error
	ForceClickErr error
	ScrollErr     error
	VisibleErr    error

	attachPolls  int
	visiblePolls int
	clicks       int
	forceClicks  int
	scrolls      int
}

func Visible(loc browser.Locator) *Element {
	return &Element{loc: loc}
}

func Missing(loc browser.Locator) *Element {
	return &Element{loc: loc, AttachedAfter: Never, VisibleAfter: Never}
}

func Hidden(loc browser.Locator) *Element {
	return &Element{loc: loc, VisibleAfter: Never}
}

func (e *Element) Locator() browser.Locator { return e.loc }

func (e *Element) IsAttached(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attachPolls++
	return reached(e.AttachedAfter, e.attachPolls), nil
}

func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visiblePolls++
	if e.VisibleErr != nil {
		return false, e.VisibleErr
	}
	if e.AttachedAfter == Never {
		return false, nil
	}
	return reached(e.VisibleAfter, e.visiblePolls), nil
}

func (e *Element) Click(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clicks++
	if e.AttachedAfter == Never {
		return errors.New("element is not attached to the DOM")
	}
	return e.ClickErr
}

func (e *Element) ForceClick(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forceClicks++
	return e.ForceClickErr
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolls++
	return e.ScrollErr
}

func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func (e *Element) ForceClicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.forceClicks
}

func (e *Element) Scrolls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolls
}

func (e *Element) VisiblePolls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visiblePolls
}

func reached(after, polls int) bool {
	if after == Never {
		return false
	}
	return polls > after
}

// StartupErr - временная ошибка запуска для тестов повторов.
func StartupErr(kind browser.Kind) error {
	return &browser.StartupError{Kind: kind, Stage: "launch", Err: errors.New("session not created")}
}
