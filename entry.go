package memfs

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/mwantia/memfs/data"
)

// entry is a node of the filesystem tree: directory, regular file or
// symbolic link, discriminated by kind. Structural fields (name,
// parent, children) and timestamps are guarded by mu; methods with the
// Locked suffix require the caller to hold mu.
type entry struct {
	// id orders multi-entry lock acquisition. V7 UUIDs are
	// time-ordered, so lexicographic order is creation order.
	id string

	fs   *MemoryFileSystem
	kind data.FileType

	mu sync.RWMutex

	name   string // original name as created
	parent *entry // nil for roots and unlinked entries

	created  time.Time
	modified time.Time
	accessed time.Time

	views *viewSet

	children *btree.Map[string, *childLink] // directories only
	content  *byteStore                     // regular files only
	handles  int                            // open handles (files)
	target   *Path                          // symlinks only
}

// childLink keeps the original-casing name next to the child node.
// The children map is keyed by the case-folded form.
type childLink struct {
	name string
	node *entry
}

func newEntry(fs *MemoryFileSystem, kind data.FileType, name string) *entry {
	now := fs.now()
	e := &entry{
		id:   uuid.Must(uuid.NewV7()).String(),
		fs:   fs,
		kind: kind,

		name:     name,
		created:  now,
		modified: now,
		accessed: now,
	}

	switch kind {
	case data.TypeDirectory:
		e.children = btree.NewMap[string, *childLink](0)
	case data.TypeFile:
		e.content = &byteStore{}
	}

	e.views = newViewSet(e)

	return e
}

// now returns the current time at millisecond granularity.
func (fs *MemoryFileSystem) now() time.Time {
	return time.Now().Truncate(time.Millisecond)
}

// modifiedLocked stamps a content mutation. Folded into an enclosing
// write-locked operation.
func (e *entry) modifiedLocked() {
	now := e.fs.now()
	e.modified = now
	e.accessed = now
}

// accessedLocked stamps a content read.
func (e *entry) accessedLocked() {
	e.accessed = e.fs.now()
}

// checkAccess acquires the read lock and runs the view checks.
func (e *entry) checkAccess(modes ...data.AccessMode) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.checkAccessLocked(modes...)
}

// checkAccessLocked evaluates the conjunction of every
// access-check-capable view. The basic view grants everything, so only
// the additional views are consulted.
func (e *entry) checkAccessLocked(modes ...data.AccessMode) error {
	for _, mode := range modes {
		if !mode.Supported() {
			return data.Unsupported("access mode " + mode.String())
		}
	}

	for _, view := range e.views.additional {
		check, ok := view.(accessChecker)
		if !ok {
			continue
		}
		for _, mode := range modes {
			if err := check.checkAccessLocked(mode); err != nil {
				return err
			}
		}
	}

	return nil
}

// getChildLocked looks up a child by case-folded name.
func (e *entry) getChildLocked(name string) *childLink {
	if e.children == nil {
		return nil
	}

	link, _ := e.children.Get(e.fs.caseSensitivity.Fold(name))
	return link
}

// addChildLocked installs a child under its original-casing name.
// The caller holds the directory's write lock; the child is not yet
// published, so its fields are set without its own lock.
func (e *entry) addChildLocked(name string, node *entry) error {
	key := e.fs.caseSensitivity.Fold(name)
	if _, exists := e.children.Get(key); exists {
		return data.ErrExist
	}

	e.children.Set(key, &childLink{name: name, node: node})
	node.parent = e
	e.modifiedLocked()

	return nil
}

// removeChildLocked unlinks a child. The emptiness check of directory
// children happens under this same lock acquisition, never separately.
func (e *entry) removeChildLocked(name string) (*entry, error) {
	key := e.fs.caseSensitivity.Fold(name)
	link, exists := e.children.Get(key)
	if !exists {
		return nil, data.ErrNoSuchFile
	}

	node := link.node
	node.mu.Lock()
	if node.kind.IsDir() && node.children.Len() > 0 {
		node.mu.Unlock()
		return nil, data.ErrNotEmpty
	}
	node.parent = nil
	node.mu.Unlock()

	e.children.Delete(key)
	e.modifiedLocked()

	return node, nil
}

// detachChildLocked unlinks a child without the emptiness check.
// Used by move, which re-attaches the node elsewhere.
func (e *entry) detachChildLocked(name string) *entry {
	key := e.fs.caseSensitivity.Fold(name)
	link, exists := e.children.Get(key)
	if !exists {
		return nil
	}

	e.children.Delete(key)
	e.modifiedLocked()

	return link.node
}

// childNamesLocked snapshots the original-casing child names in folded
// order. The snapshot is stable against later tree mutation.
func (e *entry) childNamesLocked() []string {
	names := make([]string, 0, e.children.Len())
	e.children.Scan(func(_ string, link *childLink) bool {
		names = append(names, link.name)
		return true
	})

	return names
}

// sizeLocked returns the content size for files, zero otherwise.
func (e *entry) sizeLocked() int64 {
	if e.content == nil {
		return 0
	}

	return e.content.size()
}

// lockEntries write-locks both entries in id order, smaller first.
// Locking the same entry twice degrades to a single acquisition.
func lockEntries(a, b *entry) {
	switch {
	case a == b:
		a.mu.Lock()
	case a.id < b.id:
		a.mu.Lock()
		b.mu.Lock()
	default:
		b.mu.Lock()
		a.mu.Lock()
	}
}

func unlockEntries(a, b *entry) {
	if a == b {
		a.mu.Unlock()
		return
	}

	a.mu.Unlock()
	b.mu.Unlock()
}

// isAncestorOf reports whether e lies on the parent chain of other.
// Parent pointers are read without locks; concurrent moves of the
// chain are serialized by the parent write locks the caller holds.
func (e *entry) isAncestorOf(other *entry) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}

	return false
}
