package memfs

import (
	"sync"
	"sync/atomic"

	"github.com/mwantia/memfs/data"
	"github.com/mwantia/memfs/log"
)

// Root owns one entry tree and carries its display string, such as
// "/" or "C:\". The filesystem back-reference is non-owning.
type Root struct {
	display string
	node    *entry
	fs      *MemoryFileSystem
}

// Display returns the root display string in its configured casing.
func (r *Root) Display() string {
	return r.display
}

// Path returns the root as a path value.
func (r *Root) Path() *Path {
	return &Path{fs: r.fs, root: r.display}
}

// MemoryFileSystem is an in-memory filesystem interned under an
// identifier. All state is volatile and process-local; closing is
// terminal.
type MemoryFileSystem struct {
	id       string
	registry *Registry
	logger   *log.Logger

	flavor          Flavor
	separator       string
	caseSensitivity CaseSensitivity
	forbidden       string
	umask           data.PermMask
	additionalViews []string

	roots      []*Root
	principals *UserPrincipalService
	defaultDir *Path

	// renameMu serializes operations that lock more than one entry
	// pair-wise (move, copy), so their nested child
	// acquisitions cannot invert against another multi-entry
	// operation's id-ordered pair.
	renameMu sync.Mutex

	open atomic.Bool
}

func newFileSystem(registry *Registry, id string, cfg *Config, logger *log.Logger) (*MemoryFileSystem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fs := &MemoryFileSystem{
		id:       id,
		registry: registry,
		logger:   logger,

		flavor:          cfg.Flavor,
		separator:       cfg.Separator,
		caseSensitivity: cfg.CaseSensitivity,
		forbidden:       cfg.ForbiddenCharacters,
		umask:           cfg.Umask,
		additionalViews: append([]string(nil), cfg.AdditionalViews...),
	}

	// Principals come first; view construction resolves the default
	// owner and group through them.
	fs.principals = newUserPrincipalService(fs, cfg)

	for _, display := range cfg.Roots {
		node := newEntry(fs, data.TypeDirectory, display)
		node.views.initializeRootLocked()
		fs.roots = append(fs.roots, &Root{display: display, node: node, fs: fs})
	}

	fs.open.Store(true)

	defaultDir := cfg.DefaultDirectory
	if defaultDir == "" {
		fs.defaultDir = fs.roots[0].Path()
	} else {
		p, err := fs.Path(defaultDir)
		if err != nil {
			return nil, data.InvalidConfiguration("default directory: " + err.Error())
		}
		if !p.IsAbsolute() {
			return nil, data.InvalidConfiguration("default directory '" + defaultDir + "' is not absolute")
		}
		fs.defaultDir = p.Normalize()
	}

	return fs, nil
}

// Identifier returns the scheme:authority string the filesystem is
// interned under.
func (fs *MemoryFileSystem) Identifier() string {
	return fs.id
}

// Separator returns the name separator.
func (fs *MemoryFileSystem) Separator() string {
	return fs.separator
}

// Flavor returns the path syntax family.
func (fs *MemoryFileSystem) Flavor() Flavor {
	return fs.flavor
}

// CaseSensitivity returns the name comparison mode.
func (fs *MemoryFileSystem) CaseSensitivity() CaseSensitivity {
	return fs.caseSensitivity
}

// Umask returns the default permission mask for new files.
func (fs *MemoryFileSystem) Umask() data.PermMask {
	return fs.umask
}

// Roots returns the root paths in configuration order.
func (fs *MemoryFileSystem) Roots() []*Path {
	out := make([]*Path, len(fs.roots))
	for i, root := range fs.roots {
		out[i] = root.Path()
	}

	return out
}

// DefaultDirectory returns the absolute path relative paths resolve
// against.
func (fs *MemoryFileSystem) DefaultDirectory() *Path {
	return fs.defaultDir
}

// UserPrincipals returns the principal service of this filesystem.
func (fs *MemoryFileSystem) UserPrincipals() *UserPrincipalService {
	return fs.principals
}

// SupportsView reports whether the named attribute view is configured.
func (fs *MemoryFileSystem) SupportsView(name string) bool {
	if name == ViewBasic {
		return true
	}
	if name == ViewOwner {
		return contains(fs.additionalViews, ViewPosix) || contains(fs.additionalViews, ViewAcl)
	}

	return contains(fs.additionalViews, name)
}

// IsOpen reports whether the filesystem is still open.
func (fs *MemoryFileSystem) IsOpen() bool {
	return fs.open.Load()
}

// Close transitions the filesystem to its terminal closed state and
// unregisters it. Closing twice is a no-op; every operation through
// the filesystem or any handle it produced fails afterwards.
func (fs *MemoryFileSystem) Close() error {
	if !fs.open.CompareAndSwap(true, false) {
		return nil
	}

	if fs.registry != nil {
		fs.registry.remove(fs.id)
	}
	fs.logger.Info("closed filesystem '%s'", fs.id)

	return nil
}

// checkOpen is consulted at every provider entry, before any entry
// lock is taken.
func (fs *MemoryFileSystem) checkOpen() error {
	if !fs.open.Load() {
		return data.ErrClosed
	}

	return nil
}

// lookupRoot resolves a root display string; drive letters match
// case-insensitively.
func (fs *MemoryFileSystem) lookupRoot(display string) *Root {
	for _, root := range fs.roots {
		if fs.flavor == FlavorWindows {
			if foldASCII(root.display) == foldASCII(display) {
				return root
			}
		} else if root.display == display {
			return root
		}
	}

	return nil
}
