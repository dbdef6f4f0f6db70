// Package triage разбирает упавшие проверки футера через OpenAI и относит
// падение к одной из категорий: нестабильное окружение, регрессия продукта
// или дефект самого теста.
package triage

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

type Verdict string

const (
	VerdictFlakyEnvironment  Verdict = "flaky_environment"
	VerdictProductRegression Verdict = "product_regression"
	VerdictTestDefect        Verdict = "test_defect"
	VerdictUnknown           Verdict = "unknown"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictFlakyEnvironment, VerdictProductRegression, VerdictTestDefect:
		return true
	}
	return false
}

// Failure - то, что известно об упавшей попытке.
type Failure struct {
	CaseID   string
	URL      string
	Browser  string
	OS       string
	Locator  string
	Error    string
	Attempts int
	Steps    []string
}

// Analysis - ответ модели.
type Analysis struct {
	Verdict    Verdict `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Logger сохраняет запросы к LLM (см. database.ResultRepository).
type Logger interface {
	LogTriage(ctx context.Context, caseID, prompt, response, model string, tokens int) error
}

// Completer - часть openai.Client, которая нужна для разбора.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}
