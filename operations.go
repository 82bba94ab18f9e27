package memfs

import (
	"context"
	"errors"

	"github.com/mwantia/memfs/data"
)

// DirectoryFilter selects entries in ReadDirectory; nil accepts all.
type DirectoryFilter func(*Path) bool

// pathError rebinds a bare access-denied sentinel to the path the
// operation was called with. Every other error passes unchanged.
func pathError(err error, display string) error {
	if err == nil {
		return nil
	}
	if err == data.ErrAccessDenied {
		return data.AccessDenied(display)
	}

	return err
}

// requirePath rejects paths produced by a different filesystem.
func (fs *MemoryFileSystem) requirePath(p *Path) error {
	if p == nil || p.fs != fs {
		return data.InvalidOperation("path belongs to a different filesystem")
	}

	return nil
}

// CreateDirectory creates a directory at p. Initial attributes are
// applied before the entry becomes visible.
func (fs *MemoryFileSystem) CreateDirectory(ctx context.Context, p *Path, attrs ...Attribute) error {
	return fs.create(ctx, p, data.TypeDirectory, nil, attrs)
}

// CreateDirectories creates p and every missing ancestor.
func (fs *MemoryFileSystem) CreateDirectories(ctx context.Context, p *Path, attrs ...Attribute) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(p); err != nil {
		return err
	}

	abs := fs.absolute(p)
	cur := &Path{fs: fs, root: abs.root}
	for _, name := range abs.names {
		cur = &Path{fs: fs, root: abs.root, names: append(cur.names[:len(cur.names):len(cur.names)], name)}
		err := fs.create(ctx, cur, data.TypeDirectory, nil, attrs)
		if err != nil && !errors.Is(err, data.ErrExist) {
			return err
		}
	}

	return nil
}

// CreateFile creates an empty regular file at p.
func (fs *MemoryFileSystem) CreateFile(ctx context.Context, p *Path, attrs ...Attribute) error {
	return fs.create(ctx, p, data.TypeFile, nil, attrs)
}

// CreateSymlink installs a symbolic link at link whose target is
// stored verbatim, without resolution.
func (fs *MemoryFileSystem) CreateSymlink(ctx context.Context, link, target *Path, attrs ...Attribute) error {
	if err := fs.requirePath(target); err != nil {
		return err
	}

	return fs.create(ctx, link, data.TypeSymlink, target, attrs)
}

func (fs *MemoryFileSystem) create(_ context.Context, p *Path, kind data.FileType, target *Path, attrs []Attribute) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(p); err != nil {
		return err
	}

	if len(fs.absolute(p).names) == 0 {
		return data.AlreadyExists(p.String())
	}

	parent, name, err := fs.resolveParent(p)
	if err != nil {
		return err
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	if err := parent.checkAccessLocked(data.AccessWrite); err != nil {
		return pathError(err, p.String())
	}
	if parent.getChildLocked(name) != nil {
		return data.AlreadyExists(p.String())
	}

	node := newEntry(fs, kind, name)
	node.target = target

	// A failed attribute leaves the tree untouched: the node is not
	// yet linked into the parent.
	if err := node.views.applyInitialLocked(attrs); err != nil {
		return err
	}

	if err := parent.addChildLocked(name, node); err != nil {
		return data.AlreadyExists(p.String())
	}

	return nil
}

// OpenFile opens a regular file at p and returns a handle. With a
// create flag a missing file is created under the parent rule; with
// OpenCreateNew an existing file fails.
func (fs *MemoryFileSystem) OpenFile(ctx context.Context, p *Path, flags data.OpenFlag, attrs ...Attribute) (*File, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	if flags == 0 {
		flags = data.OpenRead
	}
	if !flags.CanRead() && !flags.CanWrite() {
		flags |= data.OpenRead
	}

	node, err := fs.resolveEntry(p, !flags.HasNoFollow())
	if err != nil {
		if errors.Is(err, data.ErrNoSuchFile) && flags.HasCreate() {
			return fs.openNew(ctx, p, flags, attrs)
		}
		return nil, err
	}

	return fs.openExisting(p, flags, node)
}

// openNew creates the file under the parent's write lock. The lookup
// is repeated under the lock so racing creates resolve to exactly one
// winner.
func (fs *MemoryFileSystem) openNew(_ context.Context, p *Path, flags data.OpenFlag, attrs []Attribute) (*File, error) {
	parent, name, err := fs.resolveParent(p)
	if err != nil {
		return nil, err
	}

	parent.mu.Lock()

	if link := parent.getChildLocked(name); link != nil {
		parent.mu.Unlock()
		return fs.openExisting(p, flags, link.node)
	}

	if err := parent.checkAccessLocked(data.AccessWrite); err != nil {
		parent.mu.Unlock()
		return nil, pathError(err, p.String())
	}

	node := newEntry(fs, data.TypeFile, name)
	if err := node.views.applyInitialLocked(attrs); err != nil {
		parent.mu.Unlock()
		return nil, err
	}
	if err := parent.addChildLocked(name, node); err != nil {
		parent.mu.Unlock()
		return nil, data.AlreadyExists(p.String())
	}
	node.handles++
	parent.mu.Unlock()

	return &File{fs: fs, entry: node, path: p, flags: flags}, nil
}

func (fs *MemoryFileSystem) openExisting(p *Path, flags data.OpenFlag, node *entry) (*File, error) {
	if flags.HasCreateNew() {
		return nil, data.AlreadyExists(p.String())
	}
	if node.kind.IsDir() {
		return nil, data.IsDirectory(p.String())
	}
	if node.kind.IsSymlink() {
		return nil, data.InvalidOperation("cannot open symbolic link '" + p.String() + "'")
	}

	var modes []data.AccessMode
	if flags.CanRead() {
		modes = append(modes, data.AccessRead)
	}
	if flags.CanWrite() {
		modes = append(modes, data.AccessWrite)
	}

	node.mu.Lock()
	defer node.mu.Unlock()

	if err := node.checkAccessLocked(modes...); err != nil {
		return nil, pathError(err, p.String())
	}

	if flags.HasTruncate() && flags.CanWrite() {
		node.content.truncate(0)
		node.modifiedLocked()
	}
	node.handles++

	return &File{fs: fs, entry: node, path: p, flags: flags}, nil
}

// Delete removes the entry at p. A trailing symlink is removed, not
// followed. Open handles on a removed file keep its content alive.
func (fs *MemoryFileSystem) Delete(_ context.Context, p *Path) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(p); err != nil {
		return err
	}

	parent, name, err := fs.resolveParent(p)
	if err != nil {
		return err
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	if err := parent.checkAccessLocked(data.AccessWrite); err != nil {
		return pathError(err, p.String())
	}

	if _, err := parent.removeChildLocked(name); err != nil {
		switch {
		case errors.Is(err, data.ErrNoSuchFile):
			return data.NoSuchFile(p.String())
		case errors.Is(err, data.ErrNotEmpty):
			return data.DirectoryNotEmpty(p.String())
		default:
			return err
		}
	}

	return nil
}

// Move atomically relinks the entry at src under dst. Both parent
// directories are write-locked in identifier order. An existing
// target needs ReplaceExisting and must not be a non-empty directory.
func (fs *MemoryFileSystem) Move(_ context.Context, src, dst *Path, flags data.CopyFlag) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(src); err != nil {
		return err
	}
	if err := fs.requirePath(dst); err != nil {
		return err
	}

	srcParent, srcName, err := fs.resolveParent(src)
	if err != nil {
		return err
	}
	dstParent, dstName, err := fs.resolveParent(dst)
	if err != nil {
		return err
	}

	fs.renameMu.Lock()
	defer fs.renameMu.Unlock()

	lockEntries(srcParent, dstParent)
	defer unlockEntries(srcParent, dstParent)

	if err := srcParent.checkAccessLocked(data.AccessWrite); err != nil {
		return pathError(err, src.String())
	}
	if srcParent != dstParent {
		if err := dstParent.checkAccessLocked(data.AccessWrite); err != nil {
			return pathError(err, dst.String())
		}
	}

	srcLink := srcParent.getChildLocked(srcName)
	if srcLink == nil {
		return data.NoSuchFile(src.String())
	}
	node := srcLink.node

	// Rejected before any removal, so a failing move leaves the tree
	// untouched.
	if node.kind.IsDir() && node.isAncestorOf(dstParent) {
		return data.InvalidOperation("cannot move '" + src.String() + "' into its own subtree")
	}

	if dstLink := dstParent.getChildLocked(dstName); dstLink != nil {
		if dstLink.node == node {
			// Same entry; at most the stored casing changes.
			if dstLink.name != dstName {
				dstLink.name = dstName
				node.mu.Lock()
				node.name = dstName
				node.mu.Unlock()
				srcParent.modifiedLocked()
			}
			return nil
		}

		if !flags.HasReplaceExisting() {
			return data.AlreadyExists(dst.String())
		}
		if dstLink.node == srcParent || dstLink.node == dstParent {
			// The target holds one of the locked directories and is
			// therefore not empty.
			return data.DirectoryNotEmpty(dst.String())
		}
		if _, err := dstParent.removeChildLocked(dstName); err != nil {
			if errors.Is(err, data.ErrNotEmpty) {
				return data.DirectoryNotEmpty(dst.String())
			}
			return err
		}
	}

	srcParent.detachChildLocked(srcName)

	node.mu.Lock()
	node.name = dstName
	node.parent = dstParent
	node.mu.Unlock()

	dstParent.children.Set(fs.caseSensitivity.Fold(dstName), &childLink{name: dstName, node: node})
	dstParent.modifiedLocked()

	return nil
}

// Copy creates a new entry at dst from the entry at src. Directories
// copy shallow; CopyAttributes carries the view state and timestamps,
// otherwise the target initializes as a fresh creation.
func (fs *MemoryFileSystem) Copy(_ context.Context, src, dst *Path, flags data.CopyFlag) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(src); err != nil {
		return err
	}
	if err := fs.requirePath(dst); err != nil {
		return err
	}

	srcNode, err := fs.resolveEntry(src, true)
	if err != nil {
		return err
	}
	dstParent, dstName, err := fs.resolveParent(dst)
	if err != nil {
		return err
	}

	fs.renameMu.Lock()
	defer fs.renameMu.Unlock()

	lockEntries(srcNode, dstParent)
	defer unlockEntries(srcNode, dstParent)

	if err := srcNode.checkAccessLocked(data.AccessRead); err != nil {
		return pathError(err, src.String())
	}
	if err := dstParent.checkAccessLocked(data.AccessWrite); err != nil {
		return pathError(err, dst.String())
	}

	if dstLink := dstParent.getChildLocked(dstName); dstLink != nil {
		if dstLink.node == srcNode {
			return nil
		}
		if !flags.HasReplaceExisting() {
			return data.AlreadyExists(dst.String())
		}
		if dstLink.node == dstParent || dstLink.node == srcNode {
			return data.DirectoryNotEmpty(dst.String())
		}
		if _, err := dstParent.removeChildLocked(dstName); err != nil {
			if errors.Is(err, data.ErrNotEmpty) {
				return data.DirectoryNotEmpty(dst.String())
			}
			return err
		}
	}

	node := newEntry(fs, srcNode.kind, dstName)
	switch srcNode.kind {
	case data.TypeFile:
		node.content = srcNode.content.clone()
	case data.TypeSymlink:
		node.target = srcNode.target
	}

	if flags.HasCopyAttributes() {
		node.views.copyFromLocked(srcNode.views)
		node.created = srcNode.created
		node.modified = srcNode.modified
		node.accessed = srcNode.accessed
	}

	if err := dstParent.addChildLocked(dstName, node); err != nil {
		return data.AlreadyExists(dst.String())
	}

	return nil
}

// ReadDirectory returns a snapshot of the directory's entries as
// paths, stable against subsequent tree mutation, in folded name
// order.
func (fs *MemoryFileSystem) ReadDirectory(_ context.Context, p *Path, filter DirectoryFilter) ([]*Path, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	node, err := fs.resolveEntry(p, true)
	if err != nil {
		return nil, err
	}
	if !node.kind.IsDir() {
		return nil, data.NotDirectory(p.String())
	}

	node.mu.RLock()
	if err := node.checkAccessLocked(data.AccessRead); err != nil {
		node.mu.RUnlock()
		return nil, pathError(err, p.String())
	}
	names := node.childNamesLocked()
	node.mu.RUnlock()

	base := fs.absolute(p)
	out := make([]*Path, 0, len(names))
	for _, name := range names {
		childNames := make([]string, 0, len(base.names)+1)
		childNames = append(childNames, base.names...)
		childNames = append(childNames, name)

		child := &Path{fs: fs, root: base.root, names: childNames}
		if filter == nil || filter(child) {
			out = append(out, child)
		}
	}

	return out, nil
}

// Stat returns a snapshot of the entry's basic attributes. With
// nofollow a trailing symlink is inspected itself.
func (fs *MemoryFileSystem) Stat(_ context.Context, p *Path, nofollow bool) (*FileInfo, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	node, err := fs.resolveEntry(p, !nofollow)
	if err != nil {
		return nil, err
	}

	node.mu.RLock()
	defer node.mu.RUnlock()

	if err := node.checkAccessLocked(data.AccessRead); err != nil {
		return nil, pathError(err, p.String())
	}

	return newFileInfoLocked(node), nil
}

// ReadAttributes reads a comma-separated field list prefixed by a
// view name, such as "dos:hidden,size". Unknown fields are skipped.
func (fs *MemoryFileSystem) ReadAttributes(_ context.Context, p *Path, spec string) (map[string]any, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	node, err := fs.resolveEntry(p, true)
	if err != nil {
		return nil, err
	}

	view, fields := splitAttributeSpec(spec)

	node.mu.RLock()
	defer node.mu.RUnlock()

	if err := node.checkAccessLocked(data.AccessRead); err != nil {
		return nil, pathError(err, p.String())
	}

	out, err := node.views.readAttributesLocked(view, fields)
	return out, pathError(err, p.String())
}

// SetAttribute writes one "view:field" attribute with the view's own
// access semantics. Unknown fields fail, unlike reads.
func (fs *MemoryFileSystem) SetAttribute(_ context.Context, p *Path, name string, value any) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(p); err != nil {
		return err
	}

	node, err := fs.resolveEntry(p, true)
	if err != nil {
		return err
	}

	view, field := splitAttributeName(name)

	node.mu.Lock()
	defer node.mu.Unlock()

	return pathError(node.views.writeAttributeLocked(view, field, value, false), p.String())
}

// CheckAccess verifies the conjunction of every access-check-capable
// view for the given modes.
func (fs *MemoryFileSystem) CheckAccess(_ context.Context, p *Path, modes ...data.AccessMode) error {
	if err := fs.checkOpen(); err != nil {
		return err
	}
	if err := fs.requirePath(p); err != nil {
		return err
	}

	node, err := fs.resolveEntry(p, true)
	if err != nil {
		return err
	}

	return pathError(node.checkAccess(modes...), p.String())
}

// ReadSymbolicLink returns the stored target of a symlink, verbatim.
func (fs *MemoryFileSystem) ReadSymbolicLink(_ context.Context, p *Path) (*Path, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	node, err := fs.resolveEntry(p, false)
	if err != nil {
		return nil, err
	}
	if !node.kind.IsSymlink() {
		return nil, data.InvalidOperation("'" + p.String() + "' is not a symbolic link")
	}

	return node.target, nil
}

// ToRealPath resolves every symlink in p and returns the absolute
// path of the entry it denotes.
func (fs *MemoryFileSystem) ToRealPath(_ context.Context, p *Path) (*Path, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	node, err := fs.resolveEntry(p, true)
	if err != nil {
		return nil, err
	}

	return fs.realPathOf(node), nil
}

// Exists reports whether p resolves to an entry.
func (fs *MemoryFileSystem) Exists(ctx context.Context, p *Path) bool {
	if fs.checkOpen() != nil || fs.requirePath(p) != nil {
		return false
	}

	_, err := fs.resolveEntry(p, true)
	return err == nil
}

// IsRegularFile reports whether p resolves to a regular file.
func (fs *MemoryFileSystem) IsRegularFile(_ context.Context, p *Path) bool {
	if fs.checkOpen() != nil || fs.requirePath(p) != nil {
		return false
	}

	node, err := fs.resolveEntry(p, true)
	return err == nil && node.kind.IsRegular()
}

// IsDirectory reports whether p resolves to a directory.
func (fs *MemoryFileSystem) IsDirectory(_ context.Context, p *Path) bool {
	if fs.checkOpen() != nil || fs.requirePath(p) != nil {
		return false
	}

	node, err := fs.resolveEntry(p, true)
	return err == nil && node.kind.IsDir()
}

// IsSymlink reports whether p denotes a symbolic link itself.
func (fs *MemoryFileSystem) IsSymlink(_ context.Context, p *Path) bool {
	if fs.checkOpen() != nil || fs.requirePath(p) != nil {
		return false
	}

	node, err := fs.resolveEntry(p, false)
	return err == nil && node.kind.IsSymlink()
}

// ReadFile returns the whole content of the file at p.
func (fs *MemoryFileSystem) ReadFile(_ context.Context, p *Path) ([]byte, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	node, err := fs.resolveEntry(p, true)
	if err != nil {
		return nil, err
	}
	if !node.kind.IsRegular() {
		return nil, data.IsDirectory(p.String())
	}

	node.mu.Lock()
	defer node.mu.Unlock()

	if err := node.checkAccessLocked(data.AccessRead); err != nil {
		return nil, pathError(err, p.String())
	}

	out := make([]byte, node.content.size())
	node.content.readAt(out, 0)
	node.accessedLocked()

	return out, nil
}

// WriteFile replaces the content of the file at p, creating it when
// missing.
func (fs *MemoryFileSystem) WriteFile(ctx context.Context, p *Path, content []byte) error {
	file, err := fs.OpenFile(ctx, p, data.OpenWrite|data.OpenCreate|data.OpenTruncate)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(content)
	return err
}

// AppendFile appends to the file at p, creating it when missing.
func (fs *MemoryFileSystem) AppendFile(ctx context.Context, p *Path, content []byte) error {
	file, err := fs.OpenFile(ctx, p, data.OpenAppend|data.OpenCreate)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(content)
	return err
}
