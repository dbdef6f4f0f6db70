package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"footerCheck/internal/cli/ui"
)

// LogsHandler выводит шаги одной попытки.
type LogsHandler struct {
	repo ResultStore
	out  io.Writer
	log  *zap.Logger
}

func NewLogsHandler(repo ResultStore, out io.Writer, log *zap.Logger) *LogsHandler {
	return &LogsHandler{repo: repo, out: out, log: log}
}

func (h *LogsHandler) Show(ctx context.Context, caseID string) error {
	steps, err := h.repo.ListSteps(ctx, caseID)
	if err != nil {
		h.log.Error("Ошибка получения шагов", zap.Error(err))
		ui.Errorf(h.out, "Ошибка получения шагов")
		return err
	}

	ui.Header(h.out, ui.IconList+" Шаги попытки %s", caseID)
	if len(steps) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Шаги не найдены"+ui.ColorReset)
		return nil
	}
	for _, s := range steps {
		fmt.Fprintf(h.out, ui.ColorGray+"[%s]"+ui.ColorReset+" %s\n", s.CreatedAt.Format("15:04:05.000"), s.Text)
	}
	fmt.Fprintln(h.out)
	return nil
}
