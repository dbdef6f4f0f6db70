// Package logger собирает zap-логгер для всего приложения.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Zap оборачивает *zap.Logger, чтобы хранить рядом закрываемый файловый writer.
type Zap struct {
	*zap.Logger
	file *lumberjack.Logger
}

type Options struct {
	Env   string
	Level string
	// File - путь к JSON-логу с ротацией; пустая строка отключает запись в файл.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func New(env, level string) (*Zap, error) {
	return NewWithOptions(Options{Env: env, Level: level})
}

func NewWithOptions(opts Options) (*Zap, error) {
	lvl := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := lvl.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("неверный уровень логирования %q: %w", opts.Level, err)
		}
	}

	var encCfg zapcore.EncoderConfig
	var consoleEnc zapcore.Encoder
	if opts.Env == "dev" {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), lvl),
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		if opts.MaxSizeMB == 0 {
			opts.MaxSizeMB = 10
		}
		if opts.MaxBackups == 0 {
			opts.MaxBackups = 3
		}
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		// В файл всегда пишем JSON
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), lvl))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return &Zap{Logger: l, file: file}, nil
}

// Close сбрасывает буферы и закрывает файл лога.
func (z *Zap) Close() error {
	_ = z.Logger.Sync()
	if z.file != nil {
		return z.file.Close()
	}
	return nil
}
