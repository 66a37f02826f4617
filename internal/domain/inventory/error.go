package inventory

import "errors"

var (
	ErrNotFound          = errors.New("entity not found")
	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
