package models

import "fmt"

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NotADirectoryError is returned when a compare root is missing or not a directory.
// It is raised before any comparison starts.
type NotADirectoryError struct {
	Path string
	Err  error
}

func (e *NotADirectoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not a directory: %s: %v", e.Path, e.Err)
	}
	return "not a directory: " + e.Path
}

func (e *NotADirectoryError) Unwrap() error {
	return e.Err
}

// IOError is an unexpected filesystem failure during an otherwise valid walk.
// It aborts the whole run; no partial report is guaranteed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
