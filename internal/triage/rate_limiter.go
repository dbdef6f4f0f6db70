package triage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter - token bucket по числу запросов в минуту и токенов в час.
// Падений в одном прогоне немного, но при массовой поломке сайта каждый
// воркер придет с разбором одновременно.
type RateLimiter struct {
	requestsPerMinute int
	tokensPerHour     int

	requestMu        sync.Mutex
	requestTokens    int
	requestLastCheck time.Time

	tokenMu        sync.Mutex
	tokenBudget    int
	tokenLastCheck time.Time

	now func() time.Time
}

func NewRateLimiter(requestsPerMinute, tokensPerHour int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 20
	}
	if tokensPerHour <= 0 {
		tokensPerHour = 40000
	}

	now := time.Now()
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokensPerHour:     tokensPerHour,
		requestTokens:     requestsPerMinute,
		requestLastCheck:  now,
		tokenBudget:       tokensPerHour,
		tokenLastCheck:    now,
		now:               time.Now,
	}
}

func (rl *RateLimiter) refillRequests() {
	now := rl.now()
	add := int(now.Sub(rl.requestLastCheck).Minutes() * float64(rl.requestsPerMinute))
	if add > 0 {
		rl.requestTokens = min(rl.requestTokens+add, rl.requestsPerMinute)
		rl.requestLastCheck = now
	}
}

func (rl *RateLimiter) refillTokens() {
	now := rl.now()
	add := int(now.Sub(rl.tokenLastCheck).Hours() * float64(rl.tokensPerHour))
	if add > 0 {
		rl.tokenBudget = min(rl.tokenBudget+add, rl.tokensPerHour)
		rl.tokenLastCheck = now
	}
}

// AllowRequest списывает один запрос или сообщает, что лимит исчерпан.
func (rl *RateLimiter) AllowRequest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rl.requestMu.Lock()
	defer rl.requestMu.Unlock()

	rl.refillRequests()
	if rl.requestTokens <= 0 {
		return fmt.Errorf("превышен лимит запросов (%d RPM), повторите через %v",
			rl.requestsPerMinute, time.Minute/time.Duration(rl.requestsPerMinute))
	}
	rl.requestTokens--
	return nil
}

func (rl *RateLimiter) AllowTokens(ctx context.Context, tokens int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rl.tokenMu.Lock()
	defer rl.tokenMu.Unlock()

	rl.refillTokens()
	if rl.tokenBudget < tokens {
		return fmt.Errorf("превышен лимит токенов (%d TPH): требуется %d, доступно %d",
			rl.tokensPerHour, tokens, rl.tokenBudget)
	}
	rl.tokenBudget -= tokens
	return nil
}

// ConsumeTokens досписывает токены, когда фактический расход больше оценки.
func (rl *RateLimiter) ConsumeTokens(tokens int) {
	rl.tokenMu.Lock()
	defer rl.tokenMu.Unlock()
	rl.tokenBudget = max(rl.tokenBudget-tokens, 0)
}

func (rl *RateLimiter) Stats() (requests int, tokens int) {
	rl.requestMu.Lock()
	rl.refillRequests()
	requests = rl.requestTokens
	rl.requestMu.Unlock()

	rl.tokenMu.Lock()
	rl.refillTokens()
	tokens = rl.tokenBudget
	rl.tokenMu.Unlock()
	return
}
