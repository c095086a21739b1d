package ports

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrUnknownKey = errors.New("unknown catalog key")
)

type UnknownKeyError struct {
	Kind        string
	Key         string
	Suggestions []string
}

func (e *UnknownKeyError) Error() string {
	msg := ErrUnknownKey.Error() + ": " + e.Kind + " " + e.Key
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *UnknownKeyError) Unwrap() error {
	return ErrUnknownKey
}
