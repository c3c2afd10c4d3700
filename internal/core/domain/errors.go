package domain

import "errors"

var (
	ErrTableNotFound    = errors.New("polling table not found")
	ErrActaNotFound     = errors.New("no acta submitted for this table")
	ErrConfigNotFound   = errors.New("config key not found")
	ErrOperatorNotFound = errors.New("operator not found")

	// ErrWriteConflict marks a concurrency collision on a table's
	// commit, not bad input. Callers retry against the latest state.
	ErrWriteConflict = errors.New("concurrent submission for this table, retry")
)
