// hwif/errors.go
package hwif

import (
	"errors"
	"io/fs"
)

// Kind is a stable hardware-error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Kind string

func (k Kind) Error() string { return string(k) }

// Canonical kinds (closed set, short, stable).
const (
	KindCommunication      Kind = "communication_error"
	KindTimeout            Kind = "timeout"
	KindInvalidParameter   Kind = "invalid_parameter"
	KindDeviceNotFound     Kind = "device_not_found"
	KindPermissionDenied   Kind = "permission_denied"
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindOperationFailed    Kind = "operation_failed"
)

// Transient reports whether an error of this kind may clear on retry.
// Usage and state errors never do and are never retried automatically.
func (k Kind) Transient() bool {
	switch k {
	case KindCommunication, KindTimeout, KindOperationFailed:
		return true
	}
	return false
}

// Error carries a Kind plus free-text context and an optional cause.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return string(e.Kind) + ": " + e.Reason
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare Kind or another *Error of the same kind, so
// errors.Is(err, KindTimeout) works across wrap chains.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf extracts the Kind from an error chain.
// Foreign errors (and nil) map to the empty Kind, which is not transient.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if k, ok := err.(Kind); ok {
		return k
	}
	return ""
}

// Constructors. The Kind is the contract; reasons are context for the log
// sink and for humans reading harness reports.

func CommErr(reason string, cause error) *Error {
	return &Error{Kind: KindCommunication, Reason: reason, Err: cause}
}

func TimeoutErr(reason string) *Error {
	return &Error{Kind: KindTimeout, Reason: reason}
}

func InvalidParam(reason string) *Error {
	return &Error{Kind: KindInvalidParameter, Reason: reason}
}

func NotFound(device string) *Error {
	return &Error{Kind: KindDeviceNotFound, Reason: device}
}

func Denied(device string) *Error {
	return &Error{Kind: KindPermissionDenied, Reason: device}
}

func NotInited() *Error {
	return &Error{Kind: KindNotInitialized}
}

func AlreadyInited() *Error {
	return &Error{Kind: KindAlreadyInitialized}
}

func OpFailed(reason string, cause error) *Error {
	return &Error{Kind: KindOperationFailed, Reason: reason, Err: cause}
}

// classifyOpen maps device-node open failures onto the taxonomy.
func classifyOpen(device string, err error) *Error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound(device)
	case errors.Is(err, fs.ErrPermission):
		return Denied(device)
	}
	return CommErr("open "+device, err)
}
