package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// execCLI runs the root command with an isolated config directory and
// returns the combined output.
func execCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "procflow", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "extract")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "flow")
	assert.Contains(t, commandNames, "config")
	assert.Contains(t, commandNames, "version")
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("PROCFLOW_API_KEY", "sk-custom")

	assert.Equal(t, "sk-openai", apiKeyFromEnv(domain.ProviderOpenAI))
	assert.Equal(t, "sk-ant", apiKeyFromEnv(domain.ProviderAnthropic))
	assert.Equal(t, "sk-custom", apiKeyFromEnv(domain.ProviderCustom))
	assert.Empty(t, apiKeyFromEnv(domain.ProviderOllama))
}
