package memfs

import (
	"github.com/mwantia/memfs/data"
)

// DosView stores the four DOS flags. Flag writes take the entry write
// lock but perform no access check; Windows lets a read-only file be
// made writable again.
type DosView struct {
	entry *entry

	readOnly bool
	hidden   bool
	system   bool
	archive  bool
}

func newDosView(e *entry) *DosView {
	return &DosView{entry: e}
}

func (v *DosView) viewName() string {
	return ViewDos
}

// DosAttributes is a snapshot of the DOS flags next to the basic set.
type DosAttributes struct {
	FileInfo

	ReadOnly bool
	Hidden   bool
	System   bool
	Archive  bool
}

// Attributes returns a snapshot of the DOS flags; requires READ.
func (v *DosView) Attributes() (*DosAttributes, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	if err := v.entry.checkAccessLocked(data.AccessRead); err != nil {
		return nil, err
	}

	return &DosAttributes{
		FileInfo: *newFileInfoLocked(v.entry),
		ReadOnly: v.readOnly,
		Hidden:   v.hidden,
		System:   v.system,
		Archive:  v.archive,
	}, nil
}

func (v *DosView) SetReadOnly(value bool) error {
	return v.setFlag(&v.readOnly, value)
}

func (v *DosView) SetHidden(value bool) error {
	return v.setFlag(&v.hidden, value)
}

func (v *DosView) SetSystem(value bool) error {
	return v.setFlag(&v.system, value)
}

func (v *DosView) SetArchive(value bool) error {
	return v.setFlag(&v.archive, value)
}

func (v *DosView) setFlag(flag *bool, value bool) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	*flag = value
	return nil
}

// checkAccessLocked denies WRITE while the read-only flag is set.
func (v *DosView) checkAccessLocked(mode data.AccessMode) error {
	if mode == data.AccessWrite && v.readOnly {
		return data.ErrAccessDenied
	}

	return nil
}

func (v *DosView) readAttributeLocked(field string) (any, bool, error) {
	switch field {
	case "readonly":
		return v.readOnly, true, nil
	case "hidden":
		return v.hidden, true, nil
	case "system":
		return v.system, true, nil
	case "archive":
		return v.archive, true, nil
	default:
		return nil, false, nil
	}
}

func (v *DosView) writeAttributeLocked(field string, value any) (bool, error) {
	flag, ok := value.(bool)
	if !ok {
		switch field {
		case "readonly", "hidden", "system", "archive":
			return false, data.InvalidArgument("attribute 'dos:" + field + "' requires a bool")
		default:
			return false, nil
		}
	}

	switch field {
	case "readonly":
		v.readOnly = flag
	case "hidden":
		v.hidden = flag
	case "system":
		v.system = flag
	case "archive":
		v.archive = flag
	default:
		return false, nil
	}

	return true, nil
}

func (v *DosView) checkReadAccessLocked(string) error {
	return nil
}

// DOS flag writes carry no access check.
func (v *DosView) checkWriteAccessLocked(string) error {
	return nil
}

func (v *DosView) copyFromLocked(other attributeView) {
	src, ok := other.(*DosView)
	if !ok {
		return
	}

	v.readOnly = src.readOnly
	v.hidden = src.hidden
	v.system = src.system
	v.archive = src.archive
}

// Root directories surface as hidden system entries.
func (v *DosView) initializeRootLocked() {
	v.hidden = true
	v.system = true
}
