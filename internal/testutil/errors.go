// Package testutil provides testing utilities for satchel.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockFileNotFound indicates a mock file was not found (used in tests).
	ErrMockFileNotFound = errors.New("file not found")

	// ErrMockGitFailed indicates a mock git command failed (used in tests).
	ErrMockGitFailed = errors.New("git command failed")

	// ErrMockAPIError indicates a mock API error occurred (used in tests).
	ErrMockAPIError = errors.New("API error")

	// ErrMockNetwork indicates a mock network error occurred (used in tests).
	ErrMockNetwork = errors.New("network error")

	// ErrMockFormCanceled indicates a mock prompt was aborted (used in tests).
	ErrMockFormCanceled = errors.New("form canceled")
)
