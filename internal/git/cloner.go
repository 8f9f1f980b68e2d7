// Package git acquires local copies of remote repositories for analysis.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Error categories for acquisition failures. ErrInvalidRepoURL marks
// caller errors; ErrCloneFailed marks transient failures (network, git
// exit status). Destination collisions are fatal for the request but fit
// neither category.
var (
	ErrInvalidRepoURL           = errors.New("invalid repository URL")
	ErrCloneFailed              = errors.New("failed to clone repository")
	ErrDestinationAlreadyExists = errors.New("clone destination already exists")
)

// Registry counts in-flight clones. It is owned by the process boundary
// (server or CLI) and passed in explicitly; the analysis core never
// touches it.
type Registry struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewRegistry creates an empty clone registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]struct{})}
}

// Count returns the number of clones currently in flight.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

func (r *Registry) add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[path] = struct{}{}
}

func (r *Registry) remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, path)
}

// Cloner produces local checkouts of remote repositories under a
// temporary directory, one UUID-named directory per clone.
type Cloner struct {
	tempDir  string
	registry *Registry
}

// NewCloner creates a Cloner writing under tempDir, reporting in-flight
// clones to registry. A nil registry gets a private one.
func NewCloner(tempDir string, registry *Registry) *Cloner {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Cloner{tempDir: tempDir, registry: registry}
}

// Clone shallow-clones url into a fresh directory and returns its path
// plus a cleanup function. The caller must invoke cleanup when the
// analysis is done; the analysis core only ever reads beneath the
// returned root and never manages its lifecycle.
func (c *Cloner) Clone(ctx context.Context, url string) (string, func(), error) {
	if err := ValidateURL(url); err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(c.tempDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	dest := filepath.Join(c.tempDir, uuid.NewString())
	if _, err := os.Stat(dest); err == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrDestinationAlreadyExists, dest)
	}

	c.registry.add(dest)
	cleanup := func() {
		if err := os.RemoveAll(dest); err != nil {
			log.Printf("Warning: failed to clean up %s: %v", dest, err)
		}
		c.registry.remove(dest)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, dest)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %s: %s", ErrCloneFailed, err, strings.TrimSpace(stderr.String()))
	}

	return dest, cleanup, nil
}

// ValidateURL checks that a repository locator looks like something git
// can clone: an http/https/git URL or an scp-style git@host:path form.
func ValidateURL(url string) error {
	if url == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidRepoURL)
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "git://") {
		return nil
	}
	if strings.HasPrefix(url, "git@") && strings.Contains(url, ":") {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRepoURL, url)
}
