// Package cli собирает команды footercheck: запуск проверок, список страниц
// и просмотр истории прогонов.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"footerCheck/internal/browser"
	"footerCheck/internal/cli/commands"
	"footerCheck/internal/cli/ui"
	"footerCheck/internal/config"
	"footerCheck/internal/database"
	"footerCheck/internal/logger"
	"footerCheck/internal/migrations"
	"footerCheck/internal/pages"
	"footerCheck/internal/report"
	"footerCheck/internal/runner"
	"footerCheck/internal/session"
	"footerCheck/internal/triage"
	"footerCheck/internal/verify"
)

type CLI struct {
	cfg *config.Cfg
	log *logger.Zap
	out io.Writer
}

func New(cfg *config.Cfg, log *logger.Zap) *CLI {
	return &CLI{cfg: cfg, log: log, out: os.Stdout}
}

func (c *CLI) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "footercheck",
		Short:         "Кросс-браузерная проверка футера only.digital",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(c.runCmd(), c.pagesCmd(), c.runsCmd(), c.showCmd(), c.logsCmd())
	return root
}

func (c *CLI) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Проверить футер на всех страницах",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&c.cfg.Browser.Kind, "browser", "b", c.cfg.Browser.Kind, "браузер: chrome, firefox, safari, edge")
	f.IntVarP(&c.cfg.Run.Workers, "workers", "w", c.cfg.Run.Workers, "число параллельных воркеров")
	f.StringVar(&c.cfg.Run.PagesFile, "pages", c.cfg.Run.PagesFile, "YAML со страницами и локаторами")
	f.IntVar(&c.cfg.Run.TestRetries, "retries", c.cfg.Run.TestRetries, "повторов упавшего теста")
	f.BoolVar(&c.cfg.Run.StrictFooter, "strict-footer", c.cfg.Run.StrictFooter, "считать невидимый футер падением")
	f.BoolVar(&c.cfg.Browser.Install, "install", c.cfg.Browser.Install, "скачать браузеры Playwright перед запуском")
	f.BoolVar(&c.cfg.Browser.Headless, "headless", c.cfg.Browser.Headless, "запуск без окна")
	return cmd
}

func (c *CLI) pagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Показать страницы и наборы элементов",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			commands.NewPagesHandler(catalog, c.out).List()
			return nil
		},
	}
	cmd.Flags().StringVar(&c.cfg.Run.PagesFile, "pages", c.cfg.Run.PagesFile, "YAML со страницами и локаторами")
	return cmd
}

func (c *CLI) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Последние прогоны из БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(repo *database.ResultRepository) error {
				return commands.NewShowHandler(repo, c.out, c.log.Logger).List(cmd.Context(), limit)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "сколько прогонов показать")
	return cmd
}

func (c *CLI) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Детали прогона",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(repo *database.ResultRepository) error {
				return commands.NewShowHandler(repo, c.out, c.log.Logger).Show(cmd.Context(), args[0])
			})
		},
	}
}

func (c *CLI) logsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs <case-id>",
		Short: "Шаги одной попытки",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(repo *database.ResultRepository) error {
				return commands.NewLogsHandler(repo, c.out, c.log.Logger).Show(cmd.Context(), args[0])
			})
		},
	}
}

func (c *CLI) catalog() (*pages.Catalog, error) {
	if c.cfg.Run.PagesFile == "" {
		return pages.Default(), nil
	}
	return pages.LoadFile(c.cfg.Run.PagesFile)
}

func (c *CLI) withStore(fn func(repo *database.ResultRepository) error) error {
	if !c.cfg.Database.Enabled() {
		return fmt.Errorf("БД не настроена: задайте DB_HOST")
	}
	db, err := database.New(c.cfg, c.log.Logger)
	if err != nil {
		return err
	}
	defer db.Close(c.log.Logger)
	return fn(database.NewResultRepository(db.DB))
}

func (c *CLI) run(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	log := c.log.Logger
	catalog, err := c.catalog()
	if err != nil {
		return err
	}

	factory := browser.New(browser.Config{
		Headless:        c.cfg.Browser.Headless,
		BrowsersPath:    c.cfg.Browser.BrowsersPath,
		Display:         c.cfg.Browser.Display,
		PageLoadTimeout: c.cfg.Browser.PageLoad,
		ActionTimeout:   c.cfg.Browser.Wait,
	}, browser.DefaultOptions(c.cfg.Browser.Headless), log)
	if err := installBrowsers(factory, c.cfg.Browser.Install, log); err != nil {
		return err
	}

	manager := session.NewManager(factory, log, session.WithImplicitWait(c.cfg.Browser.ImplicitWait))
	engine := verify.NewEngine(catalog, log)
	engine.StrictFooter = c.cfg.Run.StrictFooter

	runID := uuid.NewString()
	reporters := report.Multi{report.NewLogReporter(log)}

	var repo *database.ResultRepository
	if c.cfg.Database.Enabled() {
		if err := migrations.Run(c.cfg, log); err != nil {
			return fmt.Errorf("ошибка миграций: %w", err)
		}
		db, err := database.New(c.cfg, log)
		if err != nil {
			return fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		defer db.Close(log)

		repo = database.NewResultRepository(db.DB)
		if err := repo.CreateRun(ctx, &database.Run{
			ID:      runID,
			Browser: c.cfg.Browser.Kind,
			OSLabel: c.cfg.Run.OSLabel,
			Workers: c.cfg.Run.Workers,
		}); err != nil {
			return fmt.Errorf("не удалось создать прогон: %w", err)
		}
		reporters = append(reporters, report.NewStoreReporter(repo, log))
	}

	r := runner.New(manager, engine, reporters, log, runner.Options{
		RunID:       runID,
		Workers:     c.cfg.Run.Workers,
		OSLabel:     c.cfg.Run.OSLabel,
		WaitTimeout: c.cfg.Browser.Wait,
		TestRetries: c.cfg.Run.TestRetries,
	})
	if c.cfg.OpenAI.KeyAI != "" {
		var tlog triage.Logger
		if repo != nil {
			tlog = repo
		}
		r.WithTriage(triage.NewClient(c.cfg.OpenAI.KeyAI, c.cfg.OpenAI.Model, c.cfg.OpenAI.MaxTokens, tlog, log))
	}

	ui.PrintBanner(c.out, c.cfg.Browser.Kind, c.cfg.Run.OSLabel, c.cfg.Run.Workers, len(catalog.Pages))
	summary, runErr := commands.NewRunHandler(r, c.out, log).Run(ctx, c.cfg.Browser.Kind, catalog.Pages)

	if repo != nil && summary != nil {
		status := database.RunPassed
		switch {
		case runErr != nil && summary.OK():
			status = database.RunAborted
		case !summary.OK():
			status = database.RunFailed
		}
		// итоги пишутся даже после отмены прогона
		if err := repo.FinishRun(context.WithoutCancel(ctx), runID, status, summary.Passed, summary.Failed); err != nil {
			log.Warn("Не удалось сохранить итоги прогона", zap.Error(err))
		}
	}
	return runErr
}

type installer interface {
	Install() error
}

// installBrowsers скачивает браузеры один раз до старта воркеров.
func installBrowsers(inst installer, enabled bool, log *zap.Logger) error {
	if !enabled {
		return nil
	}
	log.Info("Установка браузеров Playwright")
	if err := inst.Install(); err != nil {
		return fmt.Errorf("установка браузеров: %w", err)
	}
	return nil
}
