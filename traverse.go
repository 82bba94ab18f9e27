package memfs

import (
	"github.com/mwantia/memfs/data"
)

// symlinkBudget bounds symlink resolution depth per operation.
const symlinkBudget = 40

// absolute resolves p against the default directory when relative and
// normalizes the result, so traversal only ever sees plain components
// from user paths. Symlink targets re-enter traversal verbatim and may
// still carry '.' and '..'.
func (fs *MemoryFileSystem) absolute(p *Path) *Path {
	if p.IsAbsolute() {
		return p.Normalize()
	}

	base := fs.defaultDir
	names := make([]string, 0, len(base.names)+len(p.names))
	names = append(names, base.names...)
	names = append(names, p.names...)

	combined := &Path{fs: fs, root: base.root, names: names}
	return combined.Normalize()
}

// resolveEntry traverses to the entry at p. followLast controls
// whether a trailing symlink is resolved; intermediate symlinks
// always are.
func (fs *MemoryFileSystem) resolveEntry(p *Path, followLast bool) (*entry, error) {
	abs := fs.absolute(p)
	root := fs.lookupRoot(abs.root)
	if root == nil {
		return nil, data.NoSuchFile(abs.root)
	}

	budget := symlinkBudget
	return fs.walk(root.node, abs.names, followLast, &budget, p.String())
}

// resolveParent traverses to the directory holding p's last component
// and returns it with the component name. The entry itself may or may
// not exist.
func (fs *MemoryFileSystem) resolveParent(p *Path) (*entry, string, error) {
	abs := fs.absolute(p)
	if len(abs.names) == 0 {
		return nil, "", data.InvalidOperation("'" + p.String() + "' has no parent")
	}

	root := fs.lookupRoot(abs.root)
	if root == nil {
		return nil, "", data.NoSuchFile(abs.root)
	}

	budget := symlinkBudget
	parent, err := fs.walk(root.node, abs.names[:len(abs.names)-1], true, &budget, p.String())
	if err != nil {
		return nil, "", err
	}
	if !parent.kind.IsDir() {
		return nil, "", data.NotDirectory(p.String())
	}

	return parent, abs.names[len(abs.names)-1], nil
}

// walk descends from start along names. At every hop the current
// directory is read-locked, EXECUTE is required, and the next name is
// looked up under the case rules. Symlinks restart the walk from
// their parent or from the target's root, charged against the shared
// follow budget.
func (fs *MemoryFileSystem) walk(start *entry, names []string, followLast bool, budget *int, display string) (*entry, error) {
	cur := start
	for i, name := range names {
		last := i == len(names)-1

		if !cur.kind.IsDir() {
			return nil, data.NotDirectory(display)
		}

		cur.mu.RLock()
		if err := cur.checkAccessLocked(data.AccessExecute); err != nil {
			cur.mu.RUnlock()
			if err == data.ErrAccessDenied {
				return nil, data.AccessDenied(display)
			}
			return nil, err
		}

		switch name {
		case ".":
			cur.mu.RUnlock()
			continue
		case "..":
			parent := cur.parent
			cur.mu.RUnlock()
			if parent != nil {
				cur = parent
			}
			continue
		}

		link := cur.getChildLocked(name)
		cur.mu.RUnlock()

		if link == nil {
			return nil, data.NoSuchFile(fs.walkedPrefix(start, names[:i+1]))
		}

		node := link.node
		if node.kind.IsSymlink() && (!last || followLast) {
			*budget--
			if *budget < 0 {
				return nil, data.TooManyLinks(display)
			}

			target := node.target
			rest := names[i+1:]

			restart := cur
			remaining := make([]string, 0, len(target.names)+len(rest))
			remaining = append(remaining, target.names...)
			remaining = append(remaining, rest...)

			if target.IsAbsolute() {
				targetRoot := fs.lookupRoot(target.root)
				if targetRoot == nil {
					return nil, data.NoSuchFile(target.String())
				}
				restart = targetRoot.node
			}

			return fs.walk(restart, remaining, followLast, budget, display)
		}

		if last {
			return node, nil
		}
		cur = node
	}

	return cur, nil
}

// walkedPrefix renders the path of the components walked so far, so a
// missing intermediate reports its own prefix rather than the full
// requested path.
func (fs *MemoryFileSystem) walkedPrefix(start *entry, names []string) string {
	base := fs.realPathOf(start)
	all := append(append([]string{}, base.names...), names...)
	p := &Path{fs: fs, root: base.root, names: all}

	return p.Normalize().String()
}

// realPathOf rebuilds the absolute path of an entry from its parent
// chain. Parent pointers are read lock-free; see the locking notes on
// entry.
func (fs *MemoryFileSystem) realPathOf(e *entry) *Path {
	var names []string
	cur := e
	for cur.parent != nil {
		names = append(names, cur.name)
		cur = cur.parent
	}

	// Reverse into traversal order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	root := ""
	for _, r := range fs.roots {
		if r.node == cur {
			root = r.display
			break
		}
	}

	return &Path{fs: fs, root: root, names: names}
}
