package report

import (
	"context"

	"go.uber.org/zap"
)

// LogReporter пишет ход теста в zap.
type LogReporter struct {
	log *zap.Logger
}

func NewLogReporter(log *zap.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) fields(c *Case, fields ...zap.Field) []zap.Field {
	result := make([]zap.Field, 0, len(fields)+4)
	result = append(result,
		zap.String("case", c.DisplayName()),
		zap.String("url", c.URL),
		zap.Int("attempt", c.Attempt),
		zap.Int("worker", c.Worker),
	)
	return append(result, fields...)
}

func (r *LogReporter) StartCase(_ context.Context, c *Case) {
	r.log.Info("RUN "+c.Name, r.fields(c,
		zap.String("os", c.OS),
		zap.String("browser", c.Browser))...)
}

func (r *LogReporter) Step(_ context.Context, c *Case, text string) {
	r.log.Info(text, r.fields(c)...)
}

func (r *LogReporter) FinishCase(_ context.Context, c *Case) {
	if c.Status == StatusUnknown {
		r.log.Error("Unknown test status", r.fields(c)...)
	}

	fields := r.fields(c,
		zap.String("status", c.Status.String()),
		zap.Duration("duration", c.Duration()))
	if c.Failure != "" {
		fields = append(fields, zap.String("failure", c.Failure))
	}
	if c.FailedLocator != "" {
		fields = append(fields, zap.String("locator", c.FailedLocator))
	}

	if c.Status == StatusFail {
		r.log.Warn(c.Name+": "+c.Status.String(), fields...)
	} else {
		r.log.Info(c.Name+": "+c.Status.String(), fields...)
	}
	r.log.Info(ExecutionTime(c), r.fields(c)...)
}
