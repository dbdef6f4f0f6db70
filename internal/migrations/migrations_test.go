package migrations

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeMigrator struct {
	upErr    error
	version  uint
	closeErr error
	closed   int
}

func (m *fakeMigrator) Up() error { return m.upErr }

func (m *fakeMigrator) Version() (uint, bool, error) { return m.version, false, nil }

func (m *fakeMigrator) Close() (error, error) {
	m.closed++
	return nil, m.closeErr
}

func TestApply(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := &fakeMigrator{version: 2}

	require.NoError(t, apply(m, zap.New(core)))
	assert.Equal(t, 1, m.closed)

	applied := logs.FilterMessage("Миграции применены").All()
	require.Len(t, applied, 1)
	assert.Equal(t, uint64(2), applied[0].ContextMap()["version"])
}

func TestApplyNoChange(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := &fakeMigrator{upErr: migrate.ErrNoChange}

	assert.NoError(t, apply(m, zap.New(core)))
	assert.Equal(t, 1, m.closed)
	assert.Equal(t, 1, logs.FilterMessage("Миграции не требуются").Len())
}

func TestApplyFailure(t *testing.T) {
	cause := errors.New("Dirty database version 1. Fix and force version.")
	m := &fakeMigrator{upErr: cause, closeErr: errors.New("connection reset")}

	err := apply(m, zap.NewNop())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, m.closed)
}
