package browser

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedKind = errors.New("unsupported browser kind")
	ErrSessionStartup  = errors.New("session startup failure")
	ErrWaitTimeout     = errors.New("wait timeout")
)

// UnsupportedKindError - ошибка конфигурации, повторять запуск бессмысленно.
type UnsupportedKindError struct {
	Value string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unknown browser: %q", e.Value)
}

func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

// StartupError - платформа отказалась поднять сессию (драйвер, процесс браузера,
// контекст или вкладка). Считается временной ошибкой.
type StartupError struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("start %s session (%s): %v", e.Kind, e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func (e *StartupError) Is(target error) bool {
	return target == ErrSessionStartup
}

func startupErr(kind Kind, stage string, err error) error {
	return &StartupError{Kind: kind, Stage: stage, Err: err}
}
