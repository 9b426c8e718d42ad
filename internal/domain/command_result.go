package domain

import "strings"

// StatusNotExecuted is reported by a CommandResult that never ran.
const StatusNotExecuted = -1

// CommandResult is the captured outcome of a single git invocation.
// Lines and ExitStatus are always populated together.
type CommandResult struct {
	Args       []string
	Workdir    string
	Lines      []string
	Stderr     string
	ExitStatus int
	executed   bool
}

// NewCommandResult builds a result from raw stdout.
func NewCommandResult(args []string, workdir, stdout, stderr string, exitStatus int) *CommandResult {
	return &CommandResult{
		Args:       args,
		Workdir:    workdir,
		Lines:      SplitLines(stdout),
		Stderr:     stderr,
		ExitStatus: exitStatus,
		executed:   true,
	}
}

// Output returns the captured stdout lines. With clean set, blank lines are dropped.
func (r *CommandResult) Output(clean bool) []string {
	if r == nil || !r.executed {
		return []string{}
	}
	if !clean {
		out := make([]string, len(r.Lines))
		copy(out, r.Lines)
		return out
	}
	out := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Status returns the exit status, or StatusNotExecuted.
func (r *CommandResult) Status() int {
	if r == nil || !r.executed {
		return StatusNotExecuted
	}
	return r.ExitStatus
}

// Success reports whether the command ran and exited with status 0.
func (r *CommandResult) Success() bool {
	return r.Status() == 0
}

// Check returns a ProcessExecutionError unless the command succeeded.
func (r *CommandResult) Check() error {
	if r.Success() {
		return nil
	}
	var args []string
	var workdir, stderr string
	if r != nil {
		args, workdir, stderr = r.Args, r.Workdir, r.Stderr
	}
	return &ProcessExecutionError{
		Args:       args,
		Workdir:    workdir,
		ExitStatus: r.Status(),
		Stdout:     strings.Join(r.Output(false), "\n"),
		Stderr:     stderr,
	}
}

// SplitLines splits stdout into lines, dropping the terminating newline and carriage returns.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
