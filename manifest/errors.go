package manifest

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParseError reports a manifest that could not be decoded.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func newParseError(line int, err error) *ParseError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if where == "" {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", where, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports a manifest that decoded but is not well formed.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func newValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine pulls the first line number out of a yaml.v3 error message.
func yamlErrorLine(err error) int {
	if err == nil {
		return 0
	}
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
