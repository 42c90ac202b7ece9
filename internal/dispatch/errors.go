// ABOUTME: Failure kinds and error classification for the dispatch boundary
// ABOUTME: Handlers return plain errors; classification maps them to caller-facing kinds

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/deskmote/deskmote/internal/capture"
	"github.com/deskmote/deskmote/internal/scope"
)

// Kind labels a failure for the caller.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindPermission Kind = "permission"
	KindTimeout    Kind = "timeout"
	KindInternal   Kind = "internal"
)

// Failure is the caller-facing failure descriptor. It implements error so
// handlers can return one directly when they need a specific kind.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Failf builds a Failure of the given kind.
func Failf(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// classify maps a handler error onto a Failure. Known sentinel errors keep
// their distinct kinds; everything else is an internal failure with a
// sanitized message.
func classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Failf(KindTimeout, "operation exceeded its time limit")
	case errors.Is(err, capture.ErrWindowNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, os.ErrProcessDone):
		return Failf(KindNotFound, "%s", err.Error())
	case errors.Is(err, fs.ErrPermission):
		return Failf(KindPermission, "%s", err.Error())
	case errors.Is(err, scope.ErrTraversal),
		errors.Is(err, scope.ErrOutsideRoot),
		errors.Is(err, scope.ErrNotDirectory),
		errors.Is(err, scope.ErrNotFile):
		return Failf(KindValidation, "%s", err.Error())
	}
	return Failf(KindInternal, "internal error: %s", err.Error())
}
