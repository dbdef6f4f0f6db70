// Package session управляет жизненным циклом браузерных сессий: одна сессия
// на воркер, ограниченные повторы при старте и гарантированное закрытие.
package session

import (
	"time"

	"footerCheck/internal/browser"
)

const DefaultWaitTimeout = 10 * time.Second

// Slot - контекст выполнения одного воркера. Держит не больше одной сессии
// и лениво созданный помощник ожидания. Slot принадлежит одному воркеру и
// никогда не передается другому, поэтому блокировок здесь нет.
type Slot struct {
	ID      int
	OSLabel string

	waitTimeout time.Duration
	kind        browser.Kind
	session     browser.Session
	wait        *Waiter
}

func NewSlot(id int, osLabel string, waitTimeout time.Duration) *Slot {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &Slot{
		ID:          id,
		OSLabel:     osLabel,
		waitTimeout: waitTimeout,
	}
}

// Session возвращает привязанную сессию или nil.
func (s *Slot) Session() browser.Session {
	return s.session
}

// Kind - тип браузера последней привязанной сессии.
func (s *Slot) Kind() browser.Kind {
	return s.kind
}

// Wait возвращает помощник ожидания с границей waitTimeout, создавая его
// при первом обращении.
func (s *Slot) Wait() *Waiter {
	if s.wait == nil {
		s.wait = NewWaiter(s.waitTimeout)
	}
	return s.wait
}

func (s *Slot) bind(kind browser.Kind, sess browser.Session) {
	s.kind = kind
	s.session = sess
}

// clear сбрасывает сессию и помощник ожидания вместе.
func (s *Slot) clear() {
	s.session = nil
	s.wait = nil
}
