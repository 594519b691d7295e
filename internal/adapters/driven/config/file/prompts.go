package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
	"github.com/procflow-labs/procflow-cli/internal/core/services"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt templates from user-editable files, falling
// back to the embedded defaults when a file is missing.
//
// Initialisation is lazy: the prompt directory and default files are
// created on first Load, never in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts holds the embedded templates, also written out as the
// initial content of new prompt files.
var defaultPrompts = map[string]string{
	driven.PromptExtraction: services.DefaultExtractionPrompt,
}

// NewPromptStore creates a file-based prompt store. An empty promptDir
// defaults to ~/.procflow/prompts/. No I/O happens here.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".procflow", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name, creating the
// prompt directory and default files on first use. User file content
// wins over the embedded default; a missing or unreadable file falls
// back to the default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during file I/O.
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check under the write lock; a concurrent load may have won.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, the default prompt files and
// a README. Runs once, on first Load. Existing files are left alone.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Ensure SinglePromptStore implements the interface.
var _ driven.PromptStore = (*SinglePromptStore)(nil)

// SinglePromptStore serves the contents of one template file for every
// prompt name. It backs the --prompt-file override, where the user points
// a run at an explicit template instead of the prompts directory.
type SinglePromptStore struct {
	mu       sync.RWMutex
	path     string
	template string
}

// NewSinglePromptStore reads the template file once up front so a bad
// path fails the command instead of silently falling back to the
// embedded default.
func NewSinglePromptStore(path string) (*SinglePromptStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt file %s: %w", path, err)
	}
	template := strings.TrimSpace(string(data))
	if template == "" {
		return nil, fmt.Errorf("prompt file %s is empty", path)
	}
	return &SinglePromptStore{path: path, template: template}, nil
}

// Load returns the file's template regardless of the requested name.
func (s *SinglePromptStore) Load(string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template, nil
}

// Reload re-reads the template file, keeping the previous contents if the
// file has become unreadable.
func (s *SinglePromptStore) Reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.template = strings.TrimSpace(string(data))
	s.mu.Unlock()
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# procflow Prompts

This directory contains the customisable prompt used for process flow
extraction.

## Files

- ` + "`extraction.txt`" + ` - Instructs the model to return the process flow
  as a JSON object

## Customisation

Edit the file to customise extraction behaviour. The document name and
content are appended below the template automatically, so the template
needs no placeholders. Keep the instruction to return a single JSON
object, otherwise structural recovery will have more work to do.

Changes take effect on the next command.
`
	return os.WriteFile(path, []byte(content), 0600)
}
