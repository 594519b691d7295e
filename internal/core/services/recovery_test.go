package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

func TestRecoverObject(t *testing.T) {
	t.Run("valid JSON parses directly", func(t *testing.T) {
		obj, err := RecoverObject(`{"process_name": "Onboarding", "steps": []}`)
		require.NoError(t, err)
		assert.Equal(t, "Onboarding", obj["process_name"])
	})

	t.Run("prose around the object is stripped", func(t *testing.T) {
		raw := "Sure! Here is the extracted process:\n\n{\"process_name\": \"Invoicing\"}\n\nLet me know if you need anything else."
		obj, err := RecoverObject(raw)
		require.NoError(t, err)
		assert.Equal(t, "Invoicing", obj["process_name"])
	})

	t.Run("markdown fence is stripped", func(t *testing.T) {
		raw := "```json\n{\"process_name\": \"Review\"}\n```"
		obj, err := RecoverObject(raw)
		require.NoError(t, err)
		assert.Equal(t, "Review", obj["process_name"])
	})

	t.Run("line comments are removed", func(t *testing.T) {
		raw := `{
			"process_name": "Audit", // the annual one
			"roles": ["Auditor"]
		}`
		obj, err := RecoverObject(raw)
		require.NoError(t, err)
		assert.Equal(t, "Audit", obj["process_name"])
	})

	t.Run("trailing commas are removed", func(t *testing.T) {
		raw := `{"roles": ["Clerk", "Manager",], "process_name": "Approval",}`
		obj, err := RecoverObject(raw)
		require.NoError(t, err)
		assert.Equal(t, "Approval", obj["process_name"])
		assert.Equal(t, []any{"Clerk", "Manager"}, obj["roles"])
	})

	t.Run("comment swallowing the final brace is repaired", func(t *testing.T) {
		raw := `{"process_name": "Intake" // extracted}`
		obj, err := RecoverObject(raw)
		require.NoError(t, err)
		assert.Equal(t, "Intake", obj["process_name"])
	})

	t.Run("no braces at all fails", func(t *testing.T) {
		_, err := RecoverObject("I could not find a process in this document.")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedOutput)
	})

	t.Run("unrecoverable text reports the original", func(t *testing.T) {
		raw := `{"process_name": broken here}`
		_, err := RecoverObject(raw)
		require.Error(t, err)

		var malformed *domain.MalformedOutputError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, raw, malformed.Raw)
	})

	t.Run("long raw text is truncated in the error", func(t *testing.T) {
		raw := "not json " + strings.Repeat("x", 2000)
		_, err := RecoverObject(raw)
		require.Error(t, err)

		var malformed *domain.MalformedOutputError
		require.True(t, errors.As(err, &malformed))
		assert.Len(t, malformed.Raw, 500)
	})

	t.Run("top-level array without an object is rejected", func(t *testing.T) {
		_, err := RecoverObject(`[1, 2, 3]`)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedOutput)
	})

	t.Run("object embedded in an array is still recovered", func(t *testing.T) {
		obj, err := RecoverObject(`[{"process_name": "Nested"}]`)
		require.NoError(t, err)
		assert.Equal(t, "Nested", obj["process_name"])
	})
}
