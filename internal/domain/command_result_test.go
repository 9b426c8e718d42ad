package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandResult_Output(t *testing.T) {
	t.Run("Should drop blank lines when clean", func(t *testing.T) {
		r := &CommandResult{Lines: []string{"a", "", "  ", "b"}, executed: true}
		assert.Equal(t, []string{"a", "b"}, r.Output(true))
		assert.Equal(t, []string{"a", "", "  ", "b"}, r.Output(false))
	})
	t.Run("Should return an empty slice before execution", func(t *testing.T) {
		var r CommandResult
		assert.NotNil(t, r.Output(false))
		assert.Empty(t, r.Output(true))
		assert.Equal(t, StatusNotExecuted, r.Status())
		assert.False(t, r.Success())
	})
	t.Run("Should not expose the internal slice", func(t *testing.T) {
		r := NewCommandResult([]string{"branch"}, "/repo", "main\n", "", 0)
		out := r.Output(false)
		out[0] = "changed"
		assert.Equal(t, []string{"main"}, r.Output(false))
	})
}

func TestNewCommandResult(t *testing.T) {
	t.Run("Should split stdout into lines", func(t *testing.T) {
		r := NewCommandResult(nil, "", "one\r\ntwo\n\nthree\n", "", 0)
		assert.Equal(t, []string{"one", "two", "", "three"}, r.Lines)
		assert.Equal(t, 0, r.Status())
		assert.True(t, r.Success())
	})
	t.Run("Should report empty output as no lines", func(t *testing.T) {
		r := NewCommandResult(nil, "", "", "", 1)
		assert.Empty(t, r.Lines)
		assert.Equal(t, 1, r.Status())
	})
}

func TestCommandResult_Check(t *testing.T) {
	t.Run("Should pass on success", func(t *testing.T) {
		r := NewCommandResult([]string{"status"}, "/repo", "", "", 0)
		assert.NoError(t, r.Check())
	})
	t.Run("Should return a process execution error on failure", func(t *testing.T) {
		r := NewCommandResult([]string{"checkout", "nope"}, "/repo", "", "error: pathspec 'nope' did not match\n", 1)
		err := r.Check()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrProcessExecution))
		var pe *ProcessExecutionError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 1, pe.ExitStatus)
		assert.Equal(t, "/repo", pe.Workdir)
		assert.Contains(t, pe.Error(), "git checkout nope exited with status 1")
		assert.Contains(t, pe.Error(), "pathspec 'nope'")
	})
	t.Run("Should fail for a result that never ran", func(t *testing.T) {
		var r *CommandResult
		err := r.Check()
		var pe *ProcessExecutionError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, StatusNotExecuted, pe.ExitStatus)
	})
}
