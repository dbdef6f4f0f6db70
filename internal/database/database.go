package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"footerCheck/internal/config"
)

type DB struct {
	*gorm.DB
}

func New(cfg *config.Cfg, log *zap.Logger) (*DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к %s: %w", cfg.Database.Host, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Каждый воркер пишет свой отчет, плюс одно соединение на итоги прогона.
	sqlDB.SetMaxOpenConns(cfg.Run.Workers + 1)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.Info("Подключение к БД установлено",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.Name))
	return &DB{DB: db}, nil
}

func (d *DB) Close(log *zap.Logger) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Warn("Не удалось получить соединение БД", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Ошибка закрытия БД", zap.Error(err))
	}
}
