package topology

import "fmt"

// ErrorKind classifies the failures that can happen while building, routing
// or querying a System.
type ErrorKind int

const (
	// GenerationError reports structural problems found while loading or
	// validating a topology.
	GenerationError ErrorKind = iota
	// RoutingError reports problems found while routing the task graph.
	RoutingError
	// InfoError reports a malformed attribute query.
	InfoError
)

func (k ErrorKind) String() string {
	switch k {
	case GenerationError:
		return "Generation Error"
	case RoutingError:
		return "Routing Error"
	case InfoError:
		return "Info Error"
	default:
		return "Unknown Error"
	}
}

// Error is the error type returned by every fallible operation on a System.
// Reason is a user friendly explanation that can be displayed verbatim.
type Error struct {
	Kind   ErrorKind
	Reason string
}

// Sentinels to be used with errors.Is. They match any Error of the same kind.
var (
	ErrGeneration = &Error{Kind: GenerationError}
	ErrRouting    = &Error{Kind: RoutingError}
	ErrInfo       = &Error{Kind: InfoError}
)

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is reports whether target is an Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// GenerationErrorf creates a GenerationError.
func GenerationErrorf(format string, args ...any) *Error {
	return &Error{Kind: GenerationError, Reason: fmt.Sprintf(format, args...)}
}

// RoutingErrorf creates a RoutingError.
func RoutingErrorf(format string, args ...any) *Error {
	return &Error{Kind: RoutingError, Reason: fmt.Sprintf(format, args...)}
}

// InfoErrorf creates an InfoError.
func InfoErrorf(format string, args ...any) *Error {
	return &Error{Kind: InfoError, Reason: fmt.Sprintf(format, args...)}
}
