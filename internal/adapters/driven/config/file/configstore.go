package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// Config is the on-disk configuration shape.
type Config struct {
	Extraction ExtractionConfig `toml:"extraction"`
	Source     SourceConfig     `toml:"source"`
	Storage    StorageConfig    `toml:"storage"`
}

// ExtractionConfig configures the LLM backend. The API key is NOT stored
// here - credentials come from the environment so the config file stays
// safe to share.
type ExtractionConfig struct {
	Provider         string  `toml:"provider"`
	Model            string  `toml:"model"`
	BaseURL          string  `toml:"base_url,omitempty"`
	Temperature      float64 `toml:"temperature"`
	MaxTokens        int     `toml:"max_tokens"`
	TimeoutSeconds   int     `toml:"timeout_seconds"`
	MaxContentLength int     `toml:"max_content_length"`
}

// SourceConfig configures where documents are read from.
type SourceConfig struct {
	// Dir is the default document directory for extract runs.
	Dir string `toml:"dir,omitempty"`

	// Extensions overrides the default set of readable file extensions.
	Extensions []string `toml:"extensions,omitempty"`
}

// StorageConfig configures the flow database location.
type StorageConfig struct {
	// DataDir overrides the default database directory.
	DataDir string `toml:"data_dir,omitempty"`
}

// ConfigStore is a TOML-backed configuration store.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	cfg      Config
}

// NewConfigStore creates a config store reading from configDir/config.toml.
// If configDir is empty, defaults to ~/.procflow/config.toml. A missing
// file yields defaults, not an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".procflow")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		cfg:      defaultConfig(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// defaultConfig is the configuration used before anything is saved.
func defaultConfig() Config {
	return Config{
		Extraction: ExtractionConfig{
			Provider:         string(domain.ProviderOllama),
			Temperature:      domain.DefaultTemperature,
			MaxTokens:        domain.DefaultMaxTokens,
			MaxContentLength: domain.DefaultMaxContentLength,
		},
	}
}

// Config returns a copy of the current configuration.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetExtraction updates the extraction section and persists immediately.
func (s *ConfigStore) SetExtraction(cfg ExtractionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Extraction = cfg
	return s.save()
}

// SetSource updates the source section and persists immediately.
func (s *ConfigStore) SetSource(cfg SourceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Source = cfg
	return s.save()
}

// SetStorage updates the storage section and persists immediately.
func (s *ConfigStore) SetStorage(cfg StorageConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Storage = cfg
	return s.save()
}

// ExtractionSettings builds domain settings from the stored configuration,
// with the credential supplied by the caller (read from the environment at
// the edge).
func (s *ConfigStore) ExtractionSettings(apiKey string) *domain.ExtractionSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ext := s.cfg.Extraction
	return &domain.ExtractionSettings{
		Provider:         domain.Provider(ext.Provider),
		Model:            ext.Model,
		APIKey:           apiKey,
		BaseURL:          ext.BaseURL,
		Temperature:      ext.Temperature,
		MaxTokens:        ext.MaxTokens,
		Timeout:          time.Duration(ext.TimeoutSeconds) * time.Second,
		MaxContentLength: ext.MaxContentLength,
	}
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("%w: marshalling config: %w", domain.ErrConfiguration, err)
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("%w: writing config: %w", domain.ErrConfiguration, err)
	}
	return nil
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - start with defaults
			s.cfg = defaultConfig()
			return nil
		}
		return fmt.Errorf("%w: reading config: %w", domain.ErrConfiguration, err)
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", domain.ErrConfiguration, s.filePath, err)
	}

	s.cfg = cfg
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
