package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"footerCheck/internal/cli/ui"
	"footerCheck/internal/database"
)

// ResultStore - часть database.ResultRepository для просмотра истории.
type ResultStore interface {
	GetRun(ctx context.Context, id string) (*database.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]database.Run, error)
	ListCases(ctx context.Context, runID string) ([]database.CaseResult, error)
	ListSteps(ctx context.Context, caseID string) ([]database.StepLog, error)
}

// ShowHandler выводит историю прогонов из БД.
type ShowHandler struct {
	repo ResultStore
	out  io.Writer
	log  *zap.Logger
}

func NewShowHandler(repo ResultStore, out io.Writer, log *zap.Logger) *ShowHandler {
	return &ShowHandler{repo: repo, out: out, log: log}
}

func (h *ShowHandler) List(ctx context.Context, limit int) error {
	runs, err := h.repo.ListRuns(ctx, limit, 0)
	if err != nil {
		h.log.Error("Ошибка получения прогонов", zap.Error(err))
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Прогонов пока нет"+ui.ColorReset)
		return nil
	}

	ui.Header(h.out, ui.IconList+" Последние прогоны")
	for _, r := range runs {
		fmt.Fprintf(h.out, "%s  %s  %-8s %-10s "+ui.ColorGreen+"%d"+ui.ColorReset+"/"+ui.ColorRed+"%d"+ui.ColorReset+"  "+ui.ColorGray+"%s"+ui.ColorReset+"\n",
			ui.Status(r.Status), r.ID, r.Browser, r.OSLabel, r.Passed, r.Failed, r.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Show выводит прогон со всеми попытками.
func (h *ShowHandler) Show(ctx context.Context, runID string) error {
	run, err := h.repo.GetRun(ctx, runID)
	if err != nil {
		ui.Errorf(h.out, "Прогон %s не найден", runID)
		return err
	}

	ui.Header(h.out, "Прогон %s", run.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconGlobe+" Браузер:"+ui.ColorReset+" %s  "+ui.ColorCyan+"ОС:"+ui.ColorReset+" %s  "+
		ui.ColorCyan+"Воркеры:"+ui.ColorReset+" %d\n", run.Browser, run.OSLabel, run.Workers)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconChart+" Статус:"+ui.ColorReset+" %s\n", ui.Status(run.Status))
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconTime+" Начат:"+ui.ColorReset+" %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))

	cases, err := h.repo.ListCases(ctx, run.ID)
	if err != nil {
		h.log.Error("Ошибка получения тестов", zap.Error(err))
		ui.Errorf(h.out, "Ошибка получения тестов")
		return err
	}
	if len(cases) == 0 {
		fmt.Fprintln(h.out, "\n"+ui.ColorGray+"Тесты не найдены"+ui.ColorReset)
		return nil
	}

	fmt.Fprintf(h.out, "\n"+ui.ColorYellow+ui.IconLoop+" Попытки (%d):"+ui.ColorReset+"\n", len(cases))
	for _, c := range cases {
		fmt.Fprintf(h.out, "%s  %s "+ui.ColorGray+"#%d, воркер %d, %d ms, %s"+ui.ColorReset+"\n",
			ui.Status(c.Status), c.URL, c.Attempt, c.Worker, c.DurationMs, c.ID)
		if c.FailedLocator != "" {
			fmt.Fprintf(h.out, "    "+ui.ColorYellow+"элемент:"+ui.ColorReset+" %s\n", c.FailedLocator)
		}
		if c.Failure != "" {
			fmt.Fprintf(h.out, "    "+ui.ColorGray+"%s"+ui.ColorReset+"\n", c.Failure)
		}
		if c.Triage != "" {
			fmt.Fprintf(h.out, "    "+ui.ColorCyan+ui.IconBulb+" %s"+ui.ColorReset+"\n", c.Triage)
		}
	}
	fmt.Fprintln(h.out)
	return nil
}
