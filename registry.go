package memfs

import (
	"strings"
	"sync"

	"github.com/mwantia/memfs/data"
	"github.com/mwantia/memfs/log"
)

// Registry interns filesystems by their scheme:authority identifier.
// A single mutex guards the table; closing a filesystem unregisters
// it, so an identifier can be reused afterwards.
type Registry struct {
	mu          sync.Mutex
	filesystems map[string]*MemoryFileSystem

	logger *log.Logger
}

// RegistryOption configures a registry.
type RegistryOption func(*Registry)

// WithLogger routes lifecycle logging to the given logger.
func WithLogger(logger *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		filesystems: make(map[string]*MemoryFileSystem),
		logger:      log.Discard(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// New builds a filesystem from the configuration and interns it under
// the identifier. An identifier already registered fails.
func (r *Registry) New(id string, cfg *Config) (*MemoryFileSystem, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, data.InvalidConfiguration("configuration must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.filesystems[id]; exists {
		return nil, data.AlreadyExists(id)
	}

	fs, err := newFileSystem(r, id, cfg, r.logger.Named(id))
	if err != nil {
		return nil, err
	}

	r.filesystems[id] = fs
	r.logger.Info("created filesystem '%s' (%s)", id, cfg.Flavor)

	return fs, nil
}

// Get returns the filesystem registered under the identifier.
func (r *Registry) Get(id string) (*MemoryFileSystem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fs, exists := r.filesystems[id]
	if !exists {
		return nil, data.NotRegistered(id)
	}

	return fs, nil
}

// remove unregisters a closed filesystem.
func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.filesystems, id)
}

// validateIdentifier requires the opaque scheme:authority form.
func validateIdentifier(id string) error {
	idx := strings.IndexByte(id, ':')
	if idx <= 0 || idx == len(id)-1 {
		return data.InvalidArgument("identifier '" + id + "' is not of the form scheme:authority")
	}

	return nil
}
