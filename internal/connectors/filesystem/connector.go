// Package filesystem provides a document source reading from a local
// directory tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
	"github.com/procflow-labs/procflow-cli/internal/logger"
	"github.com/procflow-labs/procflow-cli/internal/normalisers/markdown"
	"github.com/procflow-labs/procflow-cli/internal/normalisers/plaintext"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.DocumentSource  = (*Connector)(nil)
	_ driven.WatchableSource = (*Connector)(nil)
)

// Connector reads documents from a directory tree. Hidden files and
// directories are skipped; files are routed to a normaliser by extension
// and unsupported extensions are ignored.
type Connector struct {
	root        string
	normalisers map[string]driven.Normaliser
}

// New creates a filesystem connector rooted at dir.
func New(dir string) (*Connector, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: document directory is required", domain.ErrConfiguration)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %w", domain.ErrConfiguration, dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrConfiguration, abs)
	}

	c := &Connector{
		root:        abs,
		normalisers: make(map[string]driven.Normaliser),
	}
	c.register(plaintext.New())
	c.register(markdown.New())

	return c, nil
}

// register maps a normaliser's extensions to it.
func (c *Connector) register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		c.normalisers[ext] = n
	}
}

// Root returns the absolute root directory.
func (c *Connector) Root() string {
	return c.root
}

// Documents walks the tree and returns all readable documents.
// Unreadable individual files are skipped with a logged warning so one
// bad file never sinks the batch.
func (c *Connector) Documents(ctx context.Context) ([]domain.DocumentInput, error) {
	var docs []domain.DocumentInput

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if strings.HasPrefix(d.Name(), ".") && path != c.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		doc, ok := c.read(path)
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.root, err)
	}

	logger.Info("filesystem: found %d document(s) under %s", len(docs), c.root)
	return docs, nil
}

// debounceWindow suppresses duplicate emits for the same path. Editors
// typically fire a Create immediately followed by one or more Writes for
// a single save.
const debounceWindow = 500 * time.Millisecond

// Watch emits a document each time a supported file is created or
// modified under the root. Events for the same file within the debounce
// window collapse into one emit. Subdirectories present at watch time
// are covered; directories created later are added as they appear. The
// channel closes when ctx is cancelled.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.DocumentInput, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := c.watchTree(watcher); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan domain.DocumentInput)

	go func() {
		defer close(out)
		defer watcher.Close()

		lastEmit := make(map[string]time.Time)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if strings.HasPrefix(filepath.Base(event.Name), ".") {
					continue
				}

				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("filesystem: watching new directory %s: %v", event.Name, err)
					}
					continue
				}

				now := time.Now()
				if now.Sub(lastEmit[event.Name]) < debounceWindow {
					continue
				}
				lastEmit[event.Name] = now

				doc, ok := c.read(event.Name)
				if !ok {
					continue
				}

				select {
				case out <- doc:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("filesystem: watch error: %v", err)
			}
		}
	}()

	return out, nil
}

// watchTree adds the root and all non-hidden subdirectories to the watcher.
func (c *Connector) watchTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != c.root {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// read loads and normalises one file. Returns false for unsupported
// extensions and for files that cannot be read or normalised.
func (c *Connector) read(path string) (domain.DocumentInput, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	normaliser, ok := c.normalisers[ext]
	if !ok {
		return domain.DocumentInput{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("filesystem: skipping %s: %v", path, err)
		return domain.DocumentInput{}, false
	}

	name := filepath.Base(path)
	text, err := normaliser.Normalise(name, content)
	if err != nil {
		logger.Warn("filesystem: normalising %s: %v", path, err)
		return domain.DocumentInput{}, false
	}

	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		rel = name
	}

	return domain.DocumentInput{
		Content:      text,
		Name:         name,
		Path:         path,
		RelativePath: rel,
	}, true
}
