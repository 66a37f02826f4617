package sync

import "errors"

var (
	ErrInvalidOperation = errors.New("invalid sync operation")
	ErrEntityNotFound   = errors.New("entity not found")
	ErrSyncInProgress   = errors.New("sync already in progress")
)
