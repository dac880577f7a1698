package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Common domain errors
	ErrNotFound      = errors.New("entity not found")
	ErrValidation    = errors.New("invalid request")
	ErrAuth          = errors.New("missing or rejected credentials")
	ErrTransfer      = errors.New("file transfer failed")
	ErrExport        = errors.New("host export failed")
	ErrImport        = errors.New("host import failed")
	ErrRemoteFailure = errors.New("vendor reported failure")
	ErrTimeout       = errors.New("wait budget exceeded")
	ErrBusy          = errors.New("another workflow is already running")
	ErrClosed        = errors.New("session is closed")
)

// TimeoutError carries the job handle and how long we waited. The remote
// job may still be running; the timeout is advisory, not a cancellation.
type TimeoutError struct {
	Handle  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting on %q", e.Elapsed, e.Handle)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
