package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError includes more context than a plain error that is useful for troubleshooting.
type AnnotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
	// cause is the wrapped error, nil for errors created with New.
	cause error
}

// New creates a new AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return AnnotatedError{
		msg:   msg,
		pc:    callerPC(),
		attrs: attrs,
		cause: nil,
	}
}

// Wrap adds context to err. The message is prefixed to the message of err and the attributes are logged together
// with the attributes of the wrapped errors. Wrap returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return AnnotatedError{
		msg:   msg,
		pc:    callerPC(),
		attrs: attrs,
		cause: err,
	}
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be detected
// with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg) //nolint:err113 // this is the sentinel constructor.
}

// callerPC returns the program counter of the caller of the function calling callerPC.
func callerPC() uintptr {
	var pcs [1]uintptr
	// Skip runtime.Callers, callerPC, and the constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above.
	return pcs[0]
}

// Error implements error interface.
func (err AnnotatedError) Error() string {
	if err.cause == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.cause.Error())
}

// Unwrap returns the wrapped error.
func (err AnnotatedError) Unwrap() error {
	return err.cause
}

// Wrap is a convenience function for wrapping errors, e.g., adding context to a sentinel error.
func (err AnnotatedError) Wrap(cause error) error {
	return fmt.Errorf("%w: %w", err, cause)
}

// LogValue formats the error for useful logging.
func (err AnnotatedError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(err.attrs)+1)
	attrs = append(attrs, slog.String("source", err.source()))
	attrs = append(attrs, err.attrs...)
	return slog.GroupValue(attrs...)
}

// source retrieves the source location of the error so that developers can locate it faster.
func (err AnnotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{err.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// SlogError returns a slog attribute for the error that includes the message, the source location where the error
// originated, and all the attributes collected along the wrapping chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	var (
		attrs  []slog.Attr
		source string
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		var annotated AnnotatedError
		if !errors.As(e, &annotated) {
			break
		}
		// The deepest annotation is closest to where the failure originated.
		source = annotated.source()
		attrs = append(attrs, annotated.attrs...)
		e = annotated
	}
	group := []any{slog.String("message", err.Error())}
	if source != "" {
		group = append(group, slog.String("source", source))
	}
	for _, attr := range attrs {
		group = append(group, attr)
	}
	return slog.Group("error", group...)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
