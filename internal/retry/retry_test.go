package retry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetryThreeTimes(t *testing.T) {
	a := New()
	outcomes := []error{errors.New("assertion"), nil, errors.New("timeout"), errors.New("again"), nil}

	var got []bool
	for _, o := range outcomes {
		got = append(got, a.ShouldRetry(o))
	}

	assert.Equal(t, []bool{true, true, true, false, false}, got)
	assert.Equal(t, 3, a.Retries())
}

func TestAnalyzersAreIndependent(t *testing.T) {
	first := New()
	for first.ShouldRetry(nil) {
	}

	second := New()
	assert.True(t, second.ShouldRetry(nil))
	assert.Equal(t, 3, first.Retries())
	assert.Equal(t, 1, second.Retries())
}

func TestCustomLimit(t *testing.T) {
	assert.False(t, NewWithLimit(0).ShouldRetry(nil))
	assert.False(t, NewWithLimit(-2).ShouldRetry(nil))

	a := NewWithLimit(1)
	assert.True(t, a.ShouldRetry(nil))
	assert.False(t, a.ShouldRetry(nil))
	assert.Equal(t, 1, a.Limit())
}
