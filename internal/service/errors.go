package service

import (
	"errors"
	"fmt"
	"regexp"
)

var authOrQuotaPattern = regexp.MustCompile(`(?i)401|403|quota|billing|rate limit|429`)

// AuthOrQuotaError 模型服务鉴权、计费或限流失败
type AuthOrQuotaError struct {
	Err error
}

func (e *AuthOrQuotaError) Error() string {
	return "AI API error (auth/billing/rate limit). Check your API key or quota."
}

func (e *AuthOrQuotaError) Unwrap() error { return e.Err }

// AdapterError 其他所有模型调用失败
type AdapterError struct {
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("AI analysis failed: %v", e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func classifyUpstreamError(err error) error {
	if err == nil {
		return nil
	}
	if authOrQuotaPattern.MatchString(err.Error()) {
		return &AuthOrQuotaError{Err: err}
	}
	return &AdapterError{Err: err}
}

func IsUpstreamError(err error) bool {
	var authErr *AuthOrQuotaError
	var adapterErr *AdapterError
	return errors.As(err, &authErr) || errors.As(err, &adapterErr)
}
