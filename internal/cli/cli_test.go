package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type countingInstaller struct {
	calls int
	err   error
}

func (i *countingInstaller) Install() error {
	i.calls++
	return i.err
}

func TestInstallBrowsers(t *testing.T) {
	inst := &countingInstaller{}
	assert.NoError(t, installBrowsers(inst, false, zaptest.NewLogger(t)))
	assert.Zero(t, inst.calls)

	assert.NoError(t, installBrowsers(inst, true, zaptest.NewLogger(t)))
	assert.Equal(t, 1, inst.calls)

	inst.err = errors.New("download failed")
	err := installBrowsers(inst, true, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, inst.err)
}
