package memfs

import (
	"time"

	"github.com/mwantia/memfs/data"
)

// FileInfo is a stat snapshot of one entry.
type FileInfo struct {
	// Name is the entry's original-casing name; roots report their
	// display string.
	Name string

	Type data.FileType

	// Size in bytes; zero for directories and symlinks.
	Size int64

	// Perm is the POSIX permission mask, zero when the posix view is
	// not configured.
	Perm data.PermMask

	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

// IsDir reports whether the entry is a directory.
func (fi *FileInfo) IsDir() bool {
	return fi.Type.IsDir()
}

// IsRegular reports whether the entry is a regular file.
func (fi *FileInfo) IsRegular() bool {
	return fi.Type.IsRegular()
}

// IsSymlink reports whether the entry is a symbolic link.
func (fi *FileInfo) IsSymlink() bool {
	return fi.Type.IsSymlink()
}

// newFileInfoLocked snapshots an entry under its held lock.
func newFileInfoLocked(e *entry) *FileInfo {
	fi := &FileInfo{
		Name:     e.name,
		Type:     e.kind,
		Size:     e.sizeLocked(),
		Created:  e.created,
		Modified: e.modified,
		Accessed: e.accessed,
	}

	if view, ok := e.views.additional[ViewPosix]; ok {
		fi.Perm = view.(*PosixView).perms
	}

	return fi
}
