package errors

import (
	"errors"
	"fmt"
)

// Category classifies an error to guide how it is reported.
type Category int

const (
	CategoryUnexpected Category = iota
	CategoryValidation
	CategoryNotFound
	CategoryExecution
)

func (c Category) String() string {
	switch c {
	case CategoryUnexpected:
		return "unexpected"
	case CategoryValidation:
		return "validation"
	case CategoryNotFound:
		return "not_found"
	case CategoryExecution:
		return "execution"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Error wraps an underlying error with a category and optional context.
type Error struct {
	Category Category
	Err      error
	Context  ErrorContext
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	ctxMap := e.Context.ToMap()
	if len(ctxMap) == 0 {
		return fmt.Sprintf("[%s] %v", e.Category, e.Err)
	}
	return fmt.Sprintf("[%s] %v (context=%v)", e.Category, e.Err, ctxMap)
}

// Unwrap exposes the wrapped root cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New constructs an Error with the provided category, cause, and context.
func New(category Category, err error, context ErrorContext) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category: category,
		Err:      err,
		Context:  context,
	}
}

// Wrap attaches a category and operation to err while merging extra contexts.
func Wrap(category Category, err error, operation string, contexts ...ErrorContext) error {
	if err == nil {
		return nil
	}
	ctx := ErrorContext{Operation: operation}
	for _, c := range contexts {
		ctx = ctx.Merge(c)
	}
	return New(category, err, ctx)
}

// Validation reports a bad input such as an empty preset name.
func Validation(err error, operation string, contexts ...ErrorContext) error {
	return Wrap(CategoryValidation, err, operation, contexts...)
}

// NotFound reports a lookup of something that does not exist.
func NotFound(err error, operation string, contexts ...ErrorContext) error {
	return Wrap(CategoryNotFound, err, operation, contexts...)
}

// Execution reports a script that could not be run to completion.
func Execution(err error, operation string, contexts ...ErrorContext) error {
	return Wrap(CategoryExecution, err, operation, contexts...)
}

// Unexpected reports anything else, e.g. a malformed stored record.
func Unexpected(err error, operation string, contexts ...ErrorContext) error {
	return Wrap(CategoryUnexpected, err, operation, contexts...)
}

// CategoryOf returns the category of the first categorized error in the chain.
// Uncategorized errors are unexpected.
func CategoryOf(err error) Category {
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		return typed.Category
	}
	return CategoryUnexpected
}

// Is reports whether err carries the given category.
func Is(err error, category Category) bool {
	if err == nil {
		return false
	}
	return CategoryOf(err) == category
}

// Cause returns the innermost message of a categorized error, without the
// category prefix and context suffix, for display to an operator.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) && typed != nil && typed.Err != nil {
		return typed.Err.Error()
	}
	return err.Error()
}
