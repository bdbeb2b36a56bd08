package domain

import "fmt"

// InvariantViolation - нарушение контракта между Checker и Executor.
// Это не пользовательская ошибка: команда уже прошла проверку,
// значит состояние или логика движка испорчены.
type InvariantViolation struct {
	Msg string
}

func (v *InvariantViolation) Error() string {
	return "invariant violation: " + v.Msg
}

// Invariant паникует с *InvariantViolation, если cond == false.
func Invariant(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}
