package services

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/procflow-labs/procflow-cli/internal/logger"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("combines template, header and content", func(t *testing.T) {
		prompt := BuildPrompt("Extract the process.", "sop.md", "Step one: file the form.", 100)

		assert.True(t, strings.HasPrefix(prompt, "Extract the process."))
		assert.Contains(t, prompt, "--- Document: sop.md ---")
		assert.True(t, strings.HasSuffix(prompt, "Step one: file the form."))
	})

	t.Run("truncates oversized content with a warning", func(t *testing.T) {
		var buf bytes.Buffer
		logger.SetOutput(&buf)
		logger.SetVerbose(true)
		defer func() {
			logger.SetVerbose(false)
			logger.SetOutput(os.Stderr)
		}()

		content := strings.Repeat("a", 50)
		prompt := BuildPrompt("Template", "big.md", content, 10)

		assert.Contains(t, prompt, strings.Repeat("a", 10))
		assert.NotContains(t, prompt, strings.Repeat("a", 11))
		assert.Contains(t, buf.String(), "truncating")
	})

	t.Run("truncation counts characters and never splits a rune", func(t *testing.T) {
		// 3 bytes per rune; a byte-based slice at 10 would cut mid-rune.
		content := strings.Repeat("日", 50)
		prompt := BuildPrompt("Template", "unicode.md", content, 10)

		assert.True(t, utf8.ValidString(prompt))
		assert.Contains(t, prompt, strings.Repeat("日", 10))
		assert.NotContains(t, prompt, strings.Repeat("日", 11))
	})

	t.Run("multi-byte content within the character limit is untouched", func(t *testing.T) {
		// 30 bytes but only 10 characters, so a 20-character limit fits.
		content := strings.Repeat("日", 10)
		prompt := BuildPrompt("Template", "unicode.md", content, 20)

		assert.Contains(t, prompt, content)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		content := strings.Repeat("b", 200)
		prompt := BuildPrompt("Template", "doc.md", content, 0)

		assert.Contains(t, prompt, content)
	})
}
