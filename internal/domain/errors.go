package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	// ErrConfiguration indicates a missing or unusable binary, workdir or setting
	ErrConfiguration = errors.New("configuration error")
	// ErrProcessExecution indicates git exited with a nonzero status
	ErrProcessExecution = errors.New("process execution failed")
	// ErrParse indicates a listing line that does not match its grammar
	ErrParse = errors.New("parse error")
	// ErrUnimplemented indicates an operation that is deliberately not supported
	ErrUnimplemented = errors.New("not implemented")
	// ErrDetachedHead indicates HEAD is not pointing to a branch
	ErrDetachedHead = errors.New("detached HEAD state")
	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")
	// ErrInvalidRefName indicates a branch, remote or ref name git would reject or misread as an option
	ErrInvalidRefName = errors.New("invalid reference name")
	// ErrGithubDisabled is returned by the no-op GitHub repository
	ErrGithubDisabled = errors.New("github integration disabled")
)

// ConfigurationError reports a missing binary or an unusable working directory.
type ConfigurationError struct {
	Reason string
	Path   string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Reason
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(reason, path string, err error) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Path: path, Err: err}
}

// ProcessExecutionError represents a git invocation that exited with a nonzero status.
type ProcessExecutionError struct {
	Args       []string
	Workdir    string
	ExitStatus int
	Stdout     string
	Stderr     string
}

func (e *ProcessExecutionError) Error() string {
	msg := fmt.Sprintf("git %s exited with status %d", strings.Join(e.Args, " "), e.ExitStatus)
	if e.Workdir != "" {
		msg += " in " + e.Workdir
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\nstderr: " + stderr
	}
	return msg
}

// Is returns true if the target error is ErrProcessExecution
func (e *ProcessExecutionError) Is(target error) bool {
	return target == ErrProcessExecution
}

// ParseError represents a line that does not follow the expected listing grammar.
type ParseError struct {
	Input  string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %s: %q", e.Line, e.Reason, e.Input)
	}
	return fmt.Sprintf("parse error: %s: %q", e.Reason, e.Input)
}

// Is returns true if the target error is ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(input, reason string) *ParseError {
	return &ParseError{Input: input, Reason: reason}
}

// UnimplementedError is returned by operations that refuse to guess an answer.
type UnimplementedError struct {
	Operation string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Operation)
}

// Is returns true if the target error is ErrUnimplemented
func (e *UnimplementedError) Is(target error) bool {
	return target == ErrUnimplemented
}
