// Package database хранит результаты прогонов проверки футера в PostgreSQL.
// Использует GORM с prepared statements.
package database

import "time"

// Run - один запуск набора проверок.
// Статусы: running, passed, failed, aborted.
type Run struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Browser    string    `gorm:"type:varchar(16);not null"`
	OSLabel    string    `gorm:"type:varchar(64);not null"`
	Workers    int       `gorm:"not null"`
	Status     string    `gorm:"type:varchar(16);not null;default:'running'"`
	Passed     int       `gorm:"not null;default:0"`
	Failed     int       `gorm:"not null;default:0"`
	StartedAt  time.Time `gorm:"autoCreateTime"`
	FinishedAt *time.Time
}

// CaseResult - одна попытка проверки одной страницы.
type CaseResult struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	RunID         string    `gorm:"type:uuid;index;not null"`
	Name          string    `gorm:"type:varchar(128);not null"`
	URL           string    `gorm:"type:text;not null"`
	Browser       string    `gorm:"type:varchar(16);not null"`
	OSLabel       string    `gorm:"type:varchar(64);not null"`
	Worker        int       `gorm:"not null"`
	Attempt       int       `gorm:"not null;default:1"`
	Status        string    `gorm:"type:varchar(16);not null"`
	Failure       string    `gorm:"type:text"`
	FailedLocator string    `gorm:"type:varchar(64)"`
	Triage        string    `gorm:"type:varchar(32)"`
	DurationMs    int64     // Длительность попытки
	StartedAt     time.Time `gorm:"not null"`
	FinishedAt    *time.Time
}

// StepLog - шаг проверки в том виде, в каком он ушел в отчет.
type StepLog struct {
	ID        uint      `gorm:"primaryKey"`
	CaseID    string    `gorm:"type:uuid;index;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TriageLog - запрос к LLM при разборе упавшего теста.
type TriageLog struct {
	ID           uint   `gorm:"primaryKey"`
	CaseID       string `gorm:"type:uuid;index"`
	PromptText   string `gorm:"type:text;not null"`
	ResponseText string `gorm:"type:text"`
	Model        string `gorm:"type:varchar(64)"`
	TokensUsed   int
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
