package contract

import "errors"

var (
	ErrModelInvoke       = errors.New("model invoke failed")
	ErrPromptMissing     = errors.New("required prompt is missing")
	ErrValidation        = errors.New("validation failed")
	ErrUnavailable       = errors.New("service unavailable")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrUnsafeQuery       = errors.New("query is not read-only")
)
