package errors

import (
	"errors"
	"strings"
)

// MultiError aggregates independent problems, such as every invalid field of
// a config or every missing interface, into one error.
type MultiError struct {
	Errors []error
}

// Add appends an error to the collection if it is non-nil.
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Len returns the number of collected errors.
func (m *MultiError) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Errors)
}

// Messages returns the message of every collected error in insertion order.
func (m *MultiError) Messages() []string {
	if m == nil {
		return nil
	}
	messages := make([]string, 0, len(m.Errors))
	for _, err := range m.Errors {
		messages = append(messages, err.Error())
	}
	return messages
}

// Error implements the error interface by joining all child error messages.
func (m *MultiError) Error() string {
	return strings.Join(m.Messages(), "; ")
}

// ErrorOrNil returns nil when no errors are recorded, otherwise the MultiError itself.
func (m *MultiError) ErrorOrNil() error {
	if m.Len() == 0 {
		return nil
	}
	return m
}

// Unwrap returns all wrapped errors for use with errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	if m == nil {
		return nil
	}
	return m.Errors
}

// Is reports whether any error in the collection matches target.
func (m *MultiError) Is(target error) bool {
	for _, err := range m.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
