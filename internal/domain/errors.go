package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateProduct  = errors.New("duplicate product key")
	ErrInvalidDraftState = errors.New("invalid draft state")
	ErrUnauthorized      = errors.New("unauthorized")
)
