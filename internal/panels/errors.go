package panels

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidConfig is returned by New when the configuration cannot work.
	// Nothing is processed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDecode marks a page whose bytes could not be decoded. It only
	// affects that page.
	ErrDecode = errors.New("failed to decode page")

	// ErrTextDetector marks a failed or malformed text detector call.
	ErrTextDetector = errors.New("text detector failed")
)

// PageError scopes an error to one input index.
type PageError struct {
	Index int
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Index, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// BatchError lists the pages of a batch that failed. Pages not listed were
// processed normally.
type BatchError struct {
	Failures map[int]error
}

// Indices returns the failed page indices in ascending order.
func (e *BatchError) Indices() []int {
	idx := make([]int, 0, len(e.Failures))
	for i := range e.Failures {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

func (e *BatchError) Error() string {
	idx := e.Indices()
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, e.Failures[i].Error())
	}
	return fmt.Sprintf("%d page(s) failed: %s", len(idx), strings.Join(parts, "; "))
}

// Unwrap exposes every page error, in index order, to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	idx := e.Indices()
	errs := make([]error, 0, len(idx))
	for _, i := range idx {
		errs = append(errs, e.Failures[i])
	}
	return errs
}
