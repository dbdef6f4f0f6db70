package browser

import (
	"fmt"
	"strings"
)

type SelectorStrategy string

const (
	StrategyCSS   SelectorStrategy = "css"
	StrategyXPath SelectorStrategy = "xpath"
	StrategyText  SelectorStrategy = "text"
)

// Locator описывает, как найти один элемент страницы.
type Locator struct {
	Name       string           `yaml:"name"`
	Strategy   SelectorStrategy `yaml:"strategy"`
	Expression string           `yaml:"expression"`
}

func CSS(name, expr string) Locator {
	return Locator{Name: name, Strategy: StrategyCSS, Expression: expr}
}

func XPath(name, expr string) Locator {
	return Locator{Name: name, Strategy: StrategyXPath, Expression: expr}
}

// Selector возвращает селектор в синтаксисе Playwright (css=..., xpath=..., text=...).
func (l Locator) Selector() string {
	strategy := l.Strategy
	if strategy == "" {
		strategy = StrategyCSS
	}
	return string(strategy) + "=" + l.Expression
}

func (l Locator) String() string {
	if l.Name == "" {
		return "By." + string(l.Strategy) + ": " + l.Expression
	}
	return l.Name + " (" + l.Selector() + ")"
}

// Validate проверяет локатор до запуска браузера.
func (l Locator) Validate() error {
	switch l.Strategy {
	case "", StrategyCSS, StrategyXPath, StrategyText:
	default:
		return fmt.Errorf("локатор %q: неизвестная стратегия %q", l.Name, l.Strategy)
	}
	if err := ValidateSelector(l.Expression); err != nil {
		return fmt.Errorf("локатор %q: %w", l.Name, err)
	}
	return nil
}

// ValidateSelector проверяет, что селектор не пустой и не является URL.
func ValidateSelector(selector string) error {
	selectorTrimmed := strings.TrimSpace(selector)
	if selectorTrimmed == "" {
		return fmt.Errorf("селектор не может быть пустым")
	}

	if strings.HasPrefix(selectorTrimmed, "http://") || strings.HasPrefix(selectorTrimmed, "https://") {
		return fmt.Errorf("селектор не может быть URL. Получен URL: %s", selector)
	}

	// ftp://, file:// и т.д.
	if strings.Contains(selectorTrimmed, "://") {
		return fmt.Errorf("селектор не может содержать протокол (://). Получен: %s", selector)
	}

	return nil
}
