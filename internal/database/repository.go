package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"footerCheck/internal/report"
)

const (
	RunRunning = "running"
	RunPassed  = "passed"
	RunFailed  = "failed"
	RunAborted = "aborted"
)

// ResultRepository реализует report.Store и хранит итоги прогонов.
type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) CreateRun(ctx context.Context, run *Run) error {
	if run.Status == "" {
		run.Status = RunRunning
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *ResultRepository) FinishRun(ctx context.Context, id, status string, passed, failed int) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"passed":      passed,
			"failed":      failed,
			"finished_at": now,
		}).Error
}

func (r *ResultRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ResultRepository) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	var runs []Run
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// SaveCase создает или обновляет запись попытки.
func (r *ResultRepository) SaveCase(ctx context.Context, c *report.Case) error {
	row := FromCase(c)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "failure", "failed_locator", "triage", "duration_ms", "finished_at", "worker",
		}),
	}).Create(row).Error
}

func (r *ResultRepository) AddStep(ctx context.Context, caseID string, text string, at time.Time) error {
	return r.db.WithContext(ctx).Create(&StepLog{CaseID: caseID, Text: text, CreatedAt: at}).Error
}

func (r *ResultRepository) ListCases(ctx context.Context, runID string) ([]CaseResult, error) {
	var cases []CaseResult
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("started_at ASC").
		Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *ResultRepository) ListSteps(ctx context.Context, caseID string) ([]StepLog, error) {
	var steps []StepLog
	if err := r.db.WithContext(ctx).Where("case_id = ?", caseID).Order("id ASC").Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

// LogTriage сохраняет запрос и ответ LLM для разбора падения.
func (r *ResultRepository) LogTriage(ctx context.Context, caseID, prompt, response, model string, tokens int) error {
	return r.db.WithContext(ctx).Create(&TriageLog{
		CaseID:       caseID,
		PromptText:   prompt,
		ResponseText: response,
		Model:        model,
		TokensUsed:   tokens,
	}).Error
}

// FromCase переводит отчет о попытке в строку таблицы case_results.
func FromCase(c *report.Case) *CaseResult {
	row := &CaseResult{
		ID:            c.ID,
		RunID:         c.RunID,
		Name:          c.Name,
		URL:           c.URL,
		Browser:       c.Browser,
		OSLabel:       c.OS,
		Worker:        c.Worker,
		Attempt:       c.Attempt,
		Status:        c.Status.String(),
		Failure:       c.Failure,
		FailedLocator: c.FailedLocator,
		Triage:        c.Triage,
		StartedAt:     c.Started,
	}
	if !c.Finished.IsZero() {
		finished := c.Finished
		row.FinishedAt = &finished
		row.DurationMs = c.Finished.Sub(c.Started).Milliseconds()
	}
	return row
}
