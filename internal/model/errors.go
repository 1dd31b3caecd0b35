package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// UpstreamError wraps a failed or timed-out call to the board service. It is
// the only error kind that surfaces to the route layer as a hard failure;
// everything else in the aggregation core degrades to empty results.
type UpstreamError struct {
	Op      string
	BoardID string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.BoardID != "" {
		return fmt.Sprintf("board upstream %s (board %s): %v", e.Op, e.BoardID, e.Err)
	}
	return fmt.Sprintf("board upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err with call context.
func NewUpstreamError(op, boardID string, err error) *UpstreamError {
	return &UpstreamError{Op: op, BoardID: boardID, Err: err}
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
