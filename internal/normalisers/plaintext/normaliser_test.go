package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	n := New()

	t.Run("content passes through", func(t *testing.T) {
		text, err := n.Normalise("sop.txt", []byte("Step 1: do the thing.\nStep 2: verify."))
		require.NoError(t, err)
		assert.Equal(t, "Step 1: do the thing.\nStep 2: verify.", text)
	})

	t.Run("nil content is invalid", func(t *testing.T) {
		_, err := n.Normalise("sop.txt", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("extensions", func(t *testing.T) {
		assert.Contains(t, n.Extensions(), ".txt")
	})
}
