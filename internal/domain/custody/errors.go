package custody

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrSealed           = errors.New("evidence sealed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStorage          = errors.New("storage failure")
)
