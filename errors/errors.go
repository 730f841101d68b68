// Package errors provides error handling for qntx-github.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints (surfaced by the CLI on failure)
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'gh auth login' first")
//
//	// Check errors
//	if errors.Is(err, errors.ErrNoPullRequest) {
//	    // handle missing PR
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	FlattenHints = crdb.FlattenHints
	GetAllHints  = crdb.GetAllHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors for the PR inspection workflow.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotRepository indicates the given path is not inside a git repository
	ErrNotRepository = New("not a git repository")

	// ErrUnauthenticated indicates gh is not installed or not logged in
	ErrUnauthenticated = New("gh not authenticated")

	// ErrNoPullRequest indicates no PR could be resolved for the current branch
	ErrNoPullRequest = New("no pull request found")

	// ErrGhCommand indicates a gh invocation failed
	ErrGhCommand = New("gh command failed")

	// ErrBadResponse indicates gh returned output we could not parse
	ErrBadResponse = New("unexpected gh response")
)

// IsExecutionError reports whether err belongs to the execution-error class:
// environment or transport problems, as opposed to detected PR issues.
// The CLI maps these to a distinct exit code so callers can script
// "retry on transient failure" separately from "stop, issues found".
func IsExecutionError(err error) bool {
	return err != nil && IsAny(err,
		ErrNotRepository,
		ErrUnauthenticated,
		ErrNoPullRequest,
		ErrGhCommand,
		ErrBadResponse,
	)
}

// WrapGh wraps a failed gh invocation, preserving ErrGhCommand for
// classification and carrying the command's stderr as detail.
func WrapGh(err error, stderr string, context string) error {
	wrapped := Wrap(ErrGhCommand, context)
	if stderr != "" {
		wrapped = WithDetail(wrapped, stderr)
	}
	if err != nil {
		wrapped = WithMessage(wrapped, err.Error())
	}
	return wrapped
}
