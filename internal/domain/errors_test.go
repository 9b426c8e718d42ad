package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("Should match sentinels through wrapping", func(t *testing.T) {
		cfgErr := fmt.Errorf("failed to run: %w", NewConfigurationError("workdir does not exist", "/nope", nil))
		assert.ErrorIs(t, cfgErr, ErrConfiguration)
		assert.NotErrorIs(t, cfgErr, ErrProcessExecution)

		parseErr := fmt.Errorf("failed to list: %w", NewParseError("x", "bad"))
		assert.ErrorIs(t, parseErr, ErrParse)

		unimplemented := fmt.Errorf("wrapped: %w", &UnimplementedError{Operation: "merge"})
		assert.ErrorIs(t, unimplemented, ErrUnimplemented)
		assert.Equal(t, "wrapped: merge is not implemented", unimplemented.Error())
	})
	t.Run("Should unwrap the configuration cause", func(t *testing.T) {
		cause := errors.New("exec: \"git\": executable file not found in $PATH")
		err := NewConfigurationError("git binary not found", "", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "configuration error: git binary not found: "+cause.Error(), err.Error())
	})
	t.Run("Should include the path in configuration errors", func(t *testing.T) {
		err := NewConfigurationError("workdir does not exist", "/tmp/missing", nil)
		assert.Equal(t, "configuration error: workdir does not exist (/tmp/missing)", err.Error())
	})
}
