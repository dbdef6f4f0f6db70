// Package report передает ход теста, статус, метки окружения и время
// во внешние приемники отчета.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusPass
	StatusFail
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Case - один запуск теста для одной страницы. Повтор теста создает новый Case
// с увеличенным Attempt.
type Case struct {
	ID      string
	RunID   string
	Name    string
	URL     string
	Browser string
	OS      string
	Worker  int
	Attempt int

	Status        Status
	Started       time.Time
	Finished      time.Time
	Failure       string
	FailedLocator string
	Triage        string
}

func NewCase(runID, name, url, browser, os string, attempt int) *Case {
	return &Case{
		ID:      uuid.NewString(),
		RunID:   runID,
		Name:    name,
		URL:     url,
		Browser: browser,
		OS:      os,
		Attempt: attempt,
		Started: time.Now(),
	}
}

// DisplayName - имя теста с метками окружения: "name [os | browser]".
func (c *Case) DisplayName() string {
	return c.Name + " [" + c.OS + " | " + c.Browser + "]"
}

func (c *Case) FullName() string {
	return c.Name + "_" + c.OS + "_" + c.Browser
}

func (c *Case) Duration() time.Duration {
	if c.Finished.IsZero() {
		return time.Since(c.Started)
	}
	return c.Finished.Sub(c.Started)
}

// Labels - метки окружения, прикрепляемые к каждому тесту.
func (c *Case) Labels() map[string]string {
	return map[string]string{
		"os":      c.OS,
		"browser": c.Browser,
		"url":     c.URL,
	}
}

// ExecutionTime форматирует длительность как в итоговой строке отчета.
func ExecutionTime(c *Case) string {
	return fmt.Sprintf("Execution time is %d sec", int(c.Duration().Seconds()))
}

// Reporter не возвращает ошибок: отчет не должен влиять на исход теста.
type Reporter interface {
	StartCase(ctx context.Context, c *Case)
	Step(ctx context.Context, c *Case, text string)
	FinishCase(ctx context.Context, c *Case)
}

// Multi рассылает события всем приемникам по порядку.
type Multi []Reporter

func (m Multi) StartCase(ctx context.Context, c *Case) {
	for _, r := range m {
		r.StartCase(ctx, c)
	}
}

func (m Multi) Step(ctx context.Context, c *Case, text string) {
	for _, r := range m {
		r.Step(ctx, c, text)
	}
}

func (m Multi) FinishCase(ctx context.Context, c *Case) {
	for _, r := range m {
		r.FinishCase(ctx, c)
	}
}

type Nop struct{}

func (Nop) StartCase(context.Context, *Case)    {}
func (Nop) Step(context.Context, *Case, string) {}
func (Nop) FinishCase(context.Context, *Case)   {}
