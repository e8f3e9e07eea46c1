package css

import "fmt"

// ParseError is raised for out-of-grammar stylesheet input. Malformed
// declarations never surface as ParseError to the caller; the declaration-list
// parser recovers locally and only warns.
type ParseError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<style>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Col, e.Msg)
}

// ValidationError is raised when a declaration's value does not fit the
// property. It is caught at the application site; the declaration is skipped.
type ValidationError struct {
	Property string
	Msg      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %q: %s", e.Property, e.Msg)
}

func invalid(property, format string, args ...any) *ValidationError {
	return &ValidationError{Property: property, Msg: fmt.Sprintf(format, args...)}
}
