package memfs

import (
	"github.com/mwantia/memfs/data"
)

// PosixView stores owner, group and the nine-bit permission mask.
// The default mask of a new file is the configured umask; directories
// get execute OR-ed in for all three classes so they stay traversable.
type PosixView struct {
	entry *entry

	owner *User
	group *Group
	perms data.PermMask
}

func newPosixView(e *entry) *PosixView {
	perms := e.fs.umask
	if e.kind.IsDir() {
		perms = perms.WithExecute()
	}

	return &PosixView{
		entry: e,
		owner: e.fs.principals.defaultUser,
		group: e.fs.principals.defaultGroup,
		perms: perms,
	}
}

func (v *PosixView) viewName() string {
	return ViewPosix
}

// Owner returns the owning user.
func (v *PosixView) Owner() (*User, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	return v.owner, nil
}

// SetOwner replaces the owning user; requires WRITE on the entry.
func (v *PosixView) SetOwner(owner *User) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}
	if owner == nil {
		return data.InvalidArgument("owner must not be nil")
	}
	if owner.fs != v.entry.fs {
		return data.InvalidOperation("owner belongs to a different filesystem")
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if err := v.entry.checkAccessLocked(data.AccessWrite); err != nil {
		return err
	}

	v.owner = owner
	return nil
}

// Group returns the owning group.
func (v *PosixView) Group() (*Group, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	return v.group, nil
}

// SetGroup replaces the owning group; requires WRITE on the entry.
func (v *PosixView) SetGroup(group *Group) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}
	if group == nil {
		return data.InvalidArgument("group must not be nil")
	}
	if group.fs != v.entry.fs {
		return data.InvalidOperation("group belongs to a different filesystem")
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if err := v.entry.checkAccessLocked(data.AccessWrite); err != nil {
		return err
	}

	v.group = group
	return nil
}

// Permissions returns the permission mask.
func (v *PosixView) Permissions() (data.PermMask, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return 0, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	if err := v.entry.checkAccessLocked(data.AccessRead); err != nil {
		return 0, err
	}

	return v.perms, nil
}

// SetPermissions replaces the mask; requires WRITE on the entry.
func (v *PosixView) SetPermissions(perms data.PermMask) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}
	if perms&^data.PermAll != 0 {
		return data.InvalidArgument("permissions outside the nine permission bits")
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if err := v.entry.checkAccessLocked(data.AccessWrite); err != nil {
		return err
	}

	v.perms = perms
	return nil
}

// checkAccessLocked resolves the current principal against owner,
// group and others and tests the matching permission bit.
func (v *PosixView) checkAccessLocked(mode data.AccessMode) error {
	principals := v.entry.fs.principals

	class := data.ClassOther
	if principals.currentUser().Equal(v.owner) {
		class = data.ClassOwner
	} else if principals.currentGroup().Equal(v.group) {
		class = data.ClassGroup
	}

	if !v.perms.Allows(class, mode) {
		return data.ErrAccessDenied
	}

	return nil
}

func (v *PosixView) readAttributeLocked(field string) (any, bool, error) {
	switch field {
	case "owner":
		return v.owner, true, nil
	case "group":
		return v.group, true, nil
	case "permissions":
		return v.perms, true, nil
	default:
		return nil, false, nil
	}
}

func (v *PosixView) writeAttributeLocked(field string, value any) (bool, error) {
	switch field {
	case "owner":
		owner, ok := value.(*User)
		if !ok || owner == nil {
			return false, data.InvalidArgument("attribute 'posix:owner' requires a user")
		}
		v.owner = owner
		return true, nil
	case "group":
		group, ok := value.(*Group)
		if !ok || group == nil {
			return false, data.InvalidArgument("attribute 'posix:group' requires a group")
		}
		v.group = group
		return true, nil
	case "permissions":
		perms, ok := value.(data.PermMask)
		if !ok {
			return false, data.InvalidArgument("attribute 'posix:permissions' requires a permission mask")
		}
		v.perms = perms
		return true, nil
	default:
		return false, nil
	}
}

func (v *PosixView) checkReadAccessLocked(string) error {
	return nil
}

func (v *PosixView) checkWriteAccessLocked(string) error {
	return v.entry.checkAccessLocked(data.AccessWrite)
}

func (v *PosixView) copyFromLocked(other attributeView) {
	src, ok := other.(*PosixView)
	if !ok {
		return
	}

	v.owner = src.owner
	v.group = src.group
	v.perms = src.perms
}

func (v *PosixView) initializeRootLocked() {}

func (v *PosixView) ownerLocked() *User {
	return v.owner
}

func (v *PosixView) setOwnerLocked(owner *User) {
	v.owner = owner
}
