package memfs

import (
	"time"

	"github.com/mwantia/memfs/data"
)

// BasicView exposes the always-present basic attributes of an entry:
// the three timestamps, size and type flags.
type BasicView struct {
	entry *entry
}

func (v *BasicView) viewName() string {
	return ViewBasic
}

// Attributes returns a stat snapshot of the entry.
func (v *BasicView) Attributes() (*FileInfo, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	if err := v.entry.checkAccessLocked(data.AccessRead); err != nil {
		return nil, err
	}

	return newFileInfoLocked(v.entry), nil
}

// SetTimes updates the timestamps; nil components are left untouched.
func (v *BasicView) SetTimes(modified, accessed, created *time.Time) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if err := v.entry.checkAccessLocked(data.AccessWrite); err != nil {
		return err
	}

	v.setTimesLocked(modified, accessed, created)
	return nil
}

func (v *BasicView) setTimesLocked(modified, accessed, created *time.Time) {
	if modified != nil {
		v.entry.modified = modified.Truncate(time.Millisecond)
	}
	if accessed != nil {
		v.entry.accessed = accessed.Truncate(time.Millisecond)
	}
	if created != nil {
		v.entry.created = created.Truncate(time.Millisecond)
	}
}

func (v *BasicView) readAttributeLocked(field string) (any, bool, error) {
	e := v.entry
	switch field {
	case "lastModifiedTime":
		return e.modified, true, nil
	case "lastAccessTime":
		return e.accessed, true, nil
	case "creationTime":
		return e.created, true, nil
	case "size":
		return e.sizeLocked(), true, nil
	case "isRegularFile":
		return e.kind.IsRegular(), true, nil
	case "isDirectory":
		return e.kind.IsDir(), true, nil
	case "isSymbolicLink":
		return e.kind.IsSymlink(), true, nil
	case "isOther":
		return false, true, nil
	case "fileKey":
		return e.id, true, nil
	default:
		return nil, false, nil
	}
}

func (v *BasicView) writeAttributeLocked(field string, value any) (bool, error) {
	switch field {
	case "lastModifiedTime", "lastAccessTime", "creationTime":
		t, ok := value.(time.Time)
		if !ok {
			return false, data.InvalidArgument("attribute '" + field + "' requires a time value")
		}
		switch field {
		case "lastModifiedTime":
			v.setTimesLocked(&t, nil, nil)
		case "lastAccessTime":
			v.setTimesLocked(nil, &t, nil)
		case "creationTime":
			v.setTimesLocked(nil, nil, &t)
		}
		return true, nil
	default:
		return false, nil
	}
}

func (v *BasicView) checkReadAccessLocked(string) error {
	return nil
}

// Timestamp writes require WRITE on the entry.
func (v *BasicView) checkWriteAccessLocked(string) error {
	return v.entry.checkAccessLocked(data.AccessWrite)
}

func (v *BasicView) copyFromLocked(other attributeView) {
	src, ok := other.(*BasicView)
	if !ok {
		return
	}

	v.entry.modified = src.entry.modified
	v.entry.accessed = src.entry.accessed
	v.entry.created = src.entry.created
}

func (v *BasicView) initializeRootLocked() {}
