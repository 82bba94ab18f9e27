// Package memfs implements an in-memory virtual filesystem: a rooted
// tree of directories, regular files and symbolic links with
// per-entry locking, attribute views and access control, addressed
// through paths in a POSIX, Windows or custom flavor.
//
// Filesystems are built from a Config and interned by identifier:
//
//	fs, err := memfs.New("memory:test", memfs.NewPosixConfig())
//
// All state is volatile and process-local. Closing a filesystem is
// terminal: every later operation through it or any handle it
// produced fails. Its paths stay comparable and renderable.
package memfs

// DefaultRegistry interns filesystems created through the package
// level New and Get.
var DefaultRegistry = NewRegistry()

// New builds a filesystem and interns it in the default registry.
func New(id string, cfg *Config) (*MemoryFileSystem, error) {
	return DefaultRegistry.New(id, cfg)
}

// Get returns a filesystem interned in the default registry.
func Get(id string) (*MemoryFileSystem, error) {
	return DefaultRegistry.Get(id)
}
