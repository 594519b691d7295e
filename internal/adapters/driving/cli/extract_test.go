package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

func resetExtractFlags() {
	extractProvider = ""
	extractModel = ""
	extractBaseURL = ""
	extractTemperature = -1
	extractMaxTokens = 0
	extractTimeout = 0
	extractRPM = 0
	extractDryRun = false
	extractPromptFile = ""
}

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract [directory]", extractCmd.Use)
}

func TestExtractCmd_NoDirectoryConfigured(t *testing.T) {
	defer resetExtractFlags()

	_, err := execCLI(t, t.TempDir(), "extract")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestExtractCmd_EmptyDirectory(t *testing.T) {
	defer resetExtractFlags()

	out, err := execCLI(t, t.TempDir(), "extract", t.TempDir())

	assert.NoError(t, err)
	assert.Contains(t, out, "No supported documents found")
}

func TestExtractCmd_MissingDirectory(t *testing.T) {
	defer resetExtractFlags()

	_, err := execCLI(t, t.TempDir(), "extract", "/nonexistent/docs")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestApplySettingOverrides(t *testing.T) {
	defer resetExtractFlags()

	extractModel = "llama3.2"
	extractBaseURL = "http://localhost:9999"
	extractTemperature = 0.4
	extractMaxTokens = 512
	extractTimeout = 30 * time.Second

	settings := &domain.ExtractionSettings{Model: "old", Temperature: 0.1}
	applySettingOverrides(settings)

	assert.Equal(t, "llama3.2", settings.Model)
	assert.Equal(t, "http://localhost:9999", settings.BaseURL)
	assert.InDelta(t, 0.4, settings.Temperature, 0.001)
	assert.Equal(t, 512, settings.MaxTokens)
	assert.Equal(t, 30*time.Second, settings.Timeout)
}

func TestApplySettingOverrides_ZeroTemperatureIsExplicit(t *testing.T) {
	defer resetExtractFlags()

	extractTemperature = 0
	settings := &domain.ExtractionSettings{Temperature: 0.7}
	applySettingOverrides(settings)

	assert.Zero(t, settings.Temperature)
}

func TestNewLimiter(t *testing.T) {
	defer resetExtractFlags()

	extractRPM = 0
	assert.Nil(t, newLimiter())

	extractRPM = 60
	limiter := newLimiter()
	assert.NotNil(t, limiter)
	assert.InDelta(t, 1.0, float64(limiter.Limit()), 0.001)
}
