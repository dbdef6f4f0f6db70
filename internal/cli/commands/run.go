package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"footerCheck/internal/cli/ui"
	"footerCheck/internal/report"
	"footerCheck/internal/runner"
	"footerCheck/internal/verify"
)

// ErrRunFailed - хотя бы одна страница не прошла проверку.
var ErrRunFailed = errors.New("есть упавшие проверки")

type Runner interface {
	Run(ctx context.Context, browserParam string, urls []string) (*runner.Summary, error)
}

// RunHandler запускает прогон и печатает итоги.
type RunHandler struct {
	runner Runner
	out    io.Writer
	log    *zap.Logger
}

func NewRunHandler(r Runner, out io.Writer, log *zap.Logger) *RunHandler {
	return &RunHandler{runner: r, out: out, log: log}
}

func (h *RunHandler) Run(ctx context.Context, browserParam string, urls []string) (*runner.Summary, error) {
	summary, err := h.runner.Run(ctx, browserParam, urls)
	if summary != nil {
		PrintSummary(h.out, summary)
	}
	if err != nil {
		h.log.Error("Прогон прерван", zap.Error(err))
		return summary, err
	}
	if !summary.OK() {
		return summary, fmt.Errorf("%w: %d из %d", ErrRunFailed, summary.Failed, len(summary.Cases))
	}
	return summary, nil
}

func PrintSummary(w io.Writer, s *runner.Summary) {
	ui.Header(w, ui.IconChart+" Прогон %s (%s)", s.RunID, s.Browser)
	for _, c := range s.Cases {
		fmt.Fprintf(w, "%s  %s "+ui.ColorGray+"[попыток: %d, %s]"+ui.ColorReset+"\n",
			ui.Status(c.Status.String()), c.URL, c.Attempts, ui.Duration(c.Duration))
		if c.Status != report.StatusFail || c.Err == nil {
			continue
		}
		var ae *verify.AssertionError
		if errors.As(c.Err, &ae) {
			fmt.Fprintf(w, "    "+ui.ColorYellow+"элемент:"+ui.ColorReset+" %s\n", ae.Locator.Name)
		}
		fmt.Fprintf(w, "    "+ui.ColorGray+"%v"+ui.ColorReset+"\n", c.Err)
		if c.Verdict != "" {
			fmt.Fprintf(w, "    "+ui.ColorCyan+ui.IconBulb+" %s"+ui.ColorReset+"\n", c.Verdict)
		}
	}
	fmt.Fprintf(w, "\n"+ui.ColorGreen+"PASS: %d"+ui.ColorReset+"  "+ui.ColorRed+"FAIL: %d"+ui.ColorReset+"  "+
		ui.ColorGray+ui.IconTime+" %s"+ui.ColorReset+"\n", s.Passed, s.Failed, ui.Duration(s.Duration))
}
