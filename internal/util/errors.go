package util

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNotFound            = errors.New("record not found")
	ErrQuotaExceeded       = errors.New("daily analyze quota exceeded")
)
