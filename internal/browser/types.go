// Package browser запускает браузерные сессии через Playwright и даёт
// движку проверок узкий интерфейс страницы и элемента.
package browser

import (
	"context"
	"strings"
	"time"
)

// Kind определяет тип браузера, выбираемый параметром запуска теста.
type Kind string

const (
	KindChrome  Kind = "chrome"
	KindFirefox Kind = "firefox"
	KindSafari  Kind = "safari"
	KindEdge    Kind = "edge"
)

// Kinds возвращает все поддерживаемые типы браузеров.
func Kinds() []Kind {
	return []Kind{KindChrome, KindFirefox, KindSafari, KindEdge}
}

// ParseKind разбирает строковый параметр browser без учета регистра.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindChrome, KindFirefox, KindSafari, KindEdge:
		return k, nil
	default:
		return "", &UnsupportedKindError{Value: s}
	}
}

func (k Kind) String() string {
	return string(k)
}

// Title возвращает имя браузера с заглавной буквы для логов ("Chrome driver created").
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Session - живой экземпляр браузера под управлением одного теста.
type Session interface {
	Kind() Kind
	Page() Page
	// SetDefaultTimeout задает нижнюю границу ожидания для действий со страницей.
	SetDefaultTimeout(d time.Duration)
	Close() error
}

// Page - открытая вкладка сессии.
type Page interface {
	Goto(ctx context.Context, url string) error
	Find(loc Locator) Element
	URL() string
}

// Element - ленивый указатель на элемент страницы. Каждая проверка заново
// ищет элемент в DOM, поэтому Element можно опрашивать в цикле.
type Element interface {
	Locator() Locator
	IsAttached(ctx context.Context) (bool, error)
	IsVisible(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	// ForceClick кликает через JS, минуя проверки перекрытия.
	ForceClick(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
}

// Factory создает готовую к работе сессию. Повторных попыток здесь нет.
type Factory interface {
	Create(ctx context.Context, kind Kind) (Session, error)
}

type Config struct {
	Headless        bool
	BrowsersPath    string
	Display         string
	PageLoadTimeout time.Duration
	ActionTimeout   time.Duration
}
