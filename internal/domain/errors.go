package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientBudget = errors.New("insufficient ad budget")
	// ErrBudgetConflict means the conditional balance decrement matched no row
	// because a concurrent interaction spent the budget first. Retryable: the
	// caller re-reads the balance and recomputes the amount.
	ErrBudgetConflict = errors.New("budget changed concurrently")
	ErrStorage        = errors.New("storage failure")
)
