package memfs

import (
	"strings"
)

// Path is a parsed path bound to the filesystem that produced it.
// A Path is immutable; every deriving method returns a new value.
// Absolute paths carry their root display string in original casing,
// relative paths carry an empty root.
type Path struct {
	fs    *MemoryFileSystem
	root  string
	names []string
}

// Filesystem returns the filesystem this path is bound to.
// Paths of a closed filesystem stay comparable and renderable.
func (p *Path) Filesystem() *MemoryFileSystem {
	return p.fs
}

// IsAbsolute reports whether the path starts at a root.
func (p *Path) IsAbsolute() bool {
	return p.root != ""
}

// RootName returns the root display string, empty for relative paths.
func (p *Path) RootName() string {
	return p.root
}

// Root returns the root-only path, or nil for a relative path.
func (p *Path) Root() *Path {
	if !p.IsAbsolute() {
		return nil
	}

	return &Path{fs: p.fs, root: p.root}
}

// NameCount returns the number of components.
func (p *Path) NameCount() int {
	return len(p.names)
}

// Name returns the i-th component in original casing.
func (p *Path) Name(i int) string {
	return p.names[i]
}

// Names returns a copy of the component sequence.
func (p *Path) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)

	return out
}

// FileName returns the last component, or the empty string when the
// path is a root or the empty path.
func (p *Path) FileName() string {
	if len(p.names) == 0 {
		return ""
	}

	return p.names[len(p.names)-1]
}

// Parent returns the path without its last component. A root has no
// parent; a single-component relative path has no parent either.
func (p *Path) Parent() *Path {
	if len(p.names) == 0 {
		return nil
	}
	if len(p.names) == 1 && !p.IsAbsolute() {
		return nil
	}

	return &Path{fs: p.fs, root: p.root, names: p.names[:len(p.names)-1]}
}

// Resolve parses more against this path, as if the strings were
// appended joined by the separator.
func (p *Path) Resolve(more ...string) (*Path, error) {
	parts := append([]string{p.String()}, more...)
	return p.fs.Path(parts[0], parts[1:]...)
}

// Normalize removes '.' components and collapses '..' with the
// preceding component. Leading '..' survives in a relative path and is
// dropped from an absolute one.
func (p *Path) Normalize() *Path {
	names := make([]string, 0, len(p.names))
	for _, name := range p.names {
		switch name {
		case ".":
			// skip
		case "..":
			if n := len(names); n > 0 && names[n-1] != ".." {
				names = names[:n-1]
			} else if !p.IsAbsolute() {
				names = append(names, "..")
			}
		default:
			names = append(names, name)
		}
	}

	return &Path{fs: p.fs, root: p.root, names: names}
}

// Equal reports path equality: same filesystem, same kind, same root
// and component sequences equal under the filesystem's case rules.
func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}

	return p.fs == o.fs && p.foldKey() == o.foldKey()
}

// Compare orders paths of the same filesystem lexicographically over
// their folded roots and components. Absolute paths sort before
// relative ones.
func (p *Path) Compare(o *Path) int {
	if p.IsAbsolute() != o.IsAbsolute() {
		// Absolute paths sort before relative ones.
		if p.IsAbsolute() {
			return -1
		}
		return 1
	}
	if c := strings.Compare(p.foldRoot(), o.foldRoot()); c != 0 {
		return c
	}

	pn, on := p.names, o.names
	for i := 0; i < len(pn) && i < len(on); i++ {
		if c := strings.Compare(p.foldName(pn[i]), o.foldName(on[i])); c != 0 {
			return c
		}
	}

	switch {
	case len(pn) < len(on):
		return -1
	case len(pn) > len(on):
		return 1
	default:
		return 0
	}
}

// HasPrefix reports whether the path starts with o: same kind, same
// root and o's components leading p's under the case rules.
func (p *Path) HasPrefix(o *Path) bool {
	if p.fs != o.fs || p.foldRoot() != o.foldRoot() {
		return false
	}
	if len(o.names) > len(p.names) {
		return false
	}

	for i, name := range o.names {
		if p.foldName(p.names[i]) != p.foldName(name) {
			return false
		}
	}

	return true
}

// HasPrefixString parses s against the same filesystem and checks
// HasPrefix; unparseable strings never match.
func (p *Path) HasPrefixString(s string) bool {
	o, err := p.fs.Path(s)
	if err != nil {
		return false
	}

	return p.HasPrefix(o)
}

// HasSuffix reports whether the path ends with the relative path o.
func (p *Path) HasSuffix(o *Path) bool {
	if p.fs != o.fs || o.IsAbsolute() {
		return false
	}
	if len(o.names) > len(p.names) {
		return false
	}

	offset := len(p.names) - len(o.names)
	for i, name := range o.names {
		if p.foldName(p.names[offset+i]) != p.foldName(name) {
			return false
		}
	}

	return true
}

// String renders the path with the filesystem separator, preserving
// the original casing of every component and of the root.
func (p *Path) String() string {
	joined := strings.Join(p.names, p.fs.separator)
	if !p.IsAbsolute() {
		return joined
	}

	return p.root + joined
}

// foldRoot returns the root comparison key. Drive letters fold ASCII
// regardless of the configured sensitivity.
func (p *Path) foldRoot() string {
	if p.root == "" {
		return ""
	}
	if p.fs.flavor == FlavorWindows {
		return foldASCII(p.root)
	}

	return p.root
}

func (p *Path) foldName(name string) string {
	return p.fs.caseSensitivity.Fold(name)
}

// foldKey builds the comparison key of the whole path. Components are
// joined with a NUL, which no component may contain.
func (p *Path) foldKey() string {
	var sb strings.Builder
	if p.IsAbsolute() {
		sb.WriteString("a:")
		sb.WriteString(p.foldRoot())
	} else {
		sb.WriteString("r:")
	}
	for _, name := range p.names {
		sb.WriteByte(0)
		sb.WriteString(p.foldName(name))
	}

	return sb.String()
}
