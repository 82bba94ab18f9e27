package memfs

import (
	"strings"

	"github.com/mwantia/memfs/data"
)

// Path parses the given strings into a path bound to this filesystem,
// as if all inputs were concatenated joined by the separator.
// Whether the path is absolute is decided by the first non-empty input.
func (fs *MemoryFileSystem) Path(first string, more ...string) (*Path, error) {
	inputs := make([]string, 0, 1+len(more))
	inputs = append(inputs, first)
	inputs = append(inputs, more...)

	if fs.flavor == FlavorWindows {
		return fs.parseMultiRoot(inputs)
	}

	return fs.parseSingleRoot(inputs)
}

// parseSingleRoot handles the POSIX and custom flavors: one root, one
// separator, a path is absolute iff the first non-empty input starts
// with the separator.
func (fs *MemoryFileSystem) parseSingleRoot(inputs []string) (*Path, error) {
	sep := fs.separator

	root := ""
	for _, in := range inputs {
		if in == "" {
			continue
		}
		if strings.HasPrefix(in, sep) {
			root = fs.roots[0].display
		}
		break
	}

	var names []string
	for _, in := range inputs {
		if in == "" {
			continue
		}
		for _, part := range strings.Split(in, sep) {
			if part == "" {
				// Collapses doubled separators and trailing ones.
				continue
			}
			if err := fs.checkComponent(part, in); err != nil {
				return nil, err
			}
			names = append(names, part)
		}
	}

	return &Path{fs: fs, root: root, names: names}, nil
}

// parseMultiRoot handles the Windows flavor: '\' separated with '/'
// accepted as an input alias, drive-letter roots matched
// case-insensitively while the input casing is preserved.
func (fs *MemoryFileSystem) parseMultiRoot(inputs []string) (*Path, error) {
	norm := make([]string, len(inputs))
	for i, in := range inputs {
		norm[i] = strings.ReplaceAll(in, "/", `\`)
	}

	root := ""
	for i, in := range norm {
		if in == "" {
			continue
		}
		if len(in) >= 2 && isDriveLetter(in[0]) && in[1] == ':' {
			if len(in) > 2 && in[2] != '\\' {
				return nil, data.InvalidPath(inputs[i], "drive-relative paths are not supported")
			}
			root = in[:2] + `\`
			if fs.lookupRoot(root) == nil {
				return nil, data.InvalidPath(inputs[i], "unknown root '"+root+"'")
			}
			norm[i] = in[2:]
		}
		break
	}

	var names []string
	for i, in := range norm {
		if in == "" {
			continue
		}
		for _, part := range strings.Split(in, `\`) {
			if part == "" {
				continue
			}
			if err := fs.checkComponent(part, inputs[i]); err != nil {
				return nil, err
			}
			names = append(names, part)
		}
	}

	return &Path{fs: fs, root: root, names: names}, nil
}

// checkComponent rejects components carrying a forbidden character.
// '.' and '..' stay legal until normalization.
func (fs *MemoryFileSystem) checkComponent(part, input string) error {
	if part == "." || part == ".." {
		return nil
	}

	for _, r := range part {
		if strings.ContainsRune(fs.forbidden, r) {
			return data.InvalidPath(input, "forbidden character '"+string(r)+"' in component '"+part+"'")
		}
	}

	return nil
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
