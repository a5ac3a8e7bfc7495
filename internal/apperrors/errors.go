// Package apperrors declares the error kinds every operation reports.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrToolNotFound      = errors.New("GitHub CLI not found. Please install it from https://cli.github.com")
	ErrSpawnFailed       = errors.New("failed to execute GitHub CLI")
	ErrToolFailed        = errors.New("GitHub CLI error")
	ErrParse             = errors.New("failed to parse")
	ErrMissingCredential = errors.New("API key is required")
	ErrNoInput           = errors.New("no pull requests to summarize")
	ErrService           = errors.New("summarization service error")
	ErrEmptyResponse     = errors.New("no response from summarization service")
	ErrFileWrite         = errors.New("failed to write file")
	ErrSerialization     = errors.New("failed to serialize")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// ToolFailedError is returned when the external CLI exits with a non-zero status.
type ToolFailedError struct {
	ExitCode int
	Stderr   string
}

func (e *ToolFailedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrToolFailed, e.Stderr)
}

func (e *ToolFailedError) Is(target error) bool {
	return target == ErrToolFailed
}

// ServiceError is returned when the summarization service answers with a non-success status.
// Status is 0 when the request never produced an HTTP response.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", ErrService, e.Body)
	}
	return fmt.Sprintf("%s (%d): %s", ErrService, e.Status, e.Body)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}
