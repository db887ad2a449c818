package service

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// TagNameError reports a tag name that failed validation, keeping the
// underlying tagname sentinel as the machine-checkable cause.
type TagNameError struct {
	Name string
	Err  error
}

func (e *TagNameError) Error() string {
	return fmt.Sprintf("invalid tag name %q: %v", e.Name, e.Err)
}

func (e *TagNameError) Unwrap() error { return e.Err }
