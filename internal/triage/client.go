package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"footerCheck/internal/sanitizer"
)

const systemPrompt = "You are a QA engineer triaging failed cross-browser UI checks. " +
	"You decide whether a failure is caused by an unstable environment, a real regression of the site, or a defect in the test itself."

type Client struct {
	completer Completer
	model     string
	maxTokens int
	logger    Logger
	limiter   *RateLimiter
	sanitizer *sanitizer.DataSanitizer
	log       *zap.Logger
}

func NewClient(apiKey, model string, maxTokens int, logger Logger, log *zap.Logger) *Client {
	return NewWithCompleter(openai.NewClient(apiKey), model, maxTokens, logger, log)
}

func NewWithCompleter(c Completer, model string, maxTokens int, logger Logger, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Client{
		completer: c,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
		limiter:   NewRateLimiter(0, 0),
		sanitizer: sanitizer.New(),
		log:       log,
	}
}

// Classify просит модель отнести падение к одной из категорий.
// Неизвестная категория в ответе превращается в VerdictUnknown, а не в ошибку.
func (c *Client) Classify(ctx context.Context, f Failure) (*Analysis, error) {
	// текст ошибки может содержать DSN или токены окружения
	prompt := c.sanitizer.Sanitize(buildPrompt(f))

	resp, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора падения: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	content := resp.Choices[0].Message.Content
	if c.logger != nil {
		if err := c.logger.LogTriage(ctx, f.CaseID, prompt, content, c.model, resp.Usage.TotalTokens); err != nil {
			c.log.Warn("Не удалось сохранить лог LLM", zap.Error(err))
		}
	}

	var result Analysis
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse triage response: %w", err)
	}
	result.Verdict = Verdict(strings.ToLower(strings.TrimSpace(string(result.Verdict))))
	if !result.Verdict.Valid() {
		c.log.Warn("Модель вернула неизвестную категорию", zap.String("verdict", string(result.Verdict)))
		result.Verdict = VerdictUnknown
	}
	return &result, nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := c.limiter.AllowRequest(ctx); err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	// ~4 символа на токен плюс бюджет ответа
	estimated := req.MaxTokens
	for _, msg := range req.Messages {
		estimated += len(msg.Content) / 4
	}
	if err := c.limiter.AllowTokens(ctx, estimated); err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	resp, err := c.completer.CreateChatCompletion(ctx, req)
	if err != nil {
		return resp, err
	}
	if resp.Usage.TotalTokens > estimated {
		c.limiter.ConsumeTokens(resp.Usage.TotalTokens - estimated)
	}
	return resp, nil
}

func buildPrompt(f Failure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A footer visibility check failed.\n\n")
	fmt.Fprintf(&b, "URL: %s\nBrowser: %s\nOS: %s\nAttempts: %d\n", f.URL, f.Browser, f.OS, f.Attempts)
	if f.Locator != "" {
		fmt.Fprintf(&b, "Failed element: %s\n", f.Locator)
	}
	fmt.Fprintf(&b, "Error: %s\n", f.Error)
	if len(f.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i, s := range f.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	b.WriteString(`
Respond in JSON format:
{
  "verdict": "flaky_environment" | "product_regression" | "test_defect",
  "confidence": 0.0-1.0,
  "reasoning": "short explanation"
}`)
	return b.String()
}
