// Package retry решает, нужно ли перезапустить упавший тест целиком.
package retry

const DefaultMaxRetries = 3

// Analyzer хранит счетчик одного экземпляра теста. Для каждого нового
// теста создается свой Analyzer; он не зависит от повторов при старте сессии.
type Analyzer struct {
	count int
	max   int
}

func New() *Analyzer {
	return NewWithLimit(DefaultMaxRetries)
}

func NewWithLimit(max int) *Analyzer {
	if max < 0 {
		max = 0
	}
	return &Analyzer{max: max}
}

// ShouldRetry возвращает true и увеличивает счетчик, пока лимит не исчерпан.
// Содержимое ошибки не учитывается.
func (a *Analyzer) ShouldRetry(outcome error) bool {
	if a.count < a.max {
		a.count++
		return true
	}
	return false
}

// Retries - сколько повторов уже выдано.
func (a *Analyzer) Retries() int {
	return a.count
}

func (a *Analyzer) Limit() int {
	return a.max
}
