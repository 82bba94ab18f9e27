package memfs

import (
	"github.com/mwantia/memfs/data"
)

// AclEntryType discriminates granting and denying entries.
type AclEntryType int

const (
	AclAllow AclEntryType = iota
	AclDeny
)

// AclPermission is the permission set of one ACL entry.
// Permissions combine using bitwise OR.
type AclPermission uint8

const (
	AclReadData AclPermission = 1 << iota
	AclWriteData
	AclExecute
	AclReadAttributes
	AclWriteAttributes
)

// Has reports whether every bit of p is set.
func (a AclPermission) Has(p AclPermission) bool {
	return a&p == p
}

// AclEntry grants or denies a permission set to one principal.
type AclEntry struct {
	Type        AclEntryType
	Principal   Principal
	Permissions AclPermission
}

// AclView stores an ordered list of ALLOW/DENY entries plus the owner.
// Checks scan in order: the first ALLOW covering the permission for a
// matching principal grants, the first matching DENY fails.
type AclView struct {
	entry *entry

	owner   *User
	entries []AclEntry
}

func newAclView(e *entry) *AclView {
	return &AclView{
		entry: e,
		owner: e.fs.principals.defaultUser,
	}
}

func (v *AclView) viewName() string {
	return ViewAcl
}

// Acl returns a copy of the entry list; requires the read-attributes
// ACL permission.
func (v *AclView) Acl() ([]AclEntry, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	if err := v.scanLocked(AclReadAttributes); err != nil {
		return nil, err
	}

	out := make([]AclEntry, len(v.entries))
	copy(out, v.entries)

	return out, nil
}

// SetAcl replaces the entry list; requires the write-attributes ACL
// permission under the same scan rule.
func (v *AclView) SetAcl(entries []AclEntry) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Principal == nil {
			return data.InvalidArgument("acl entry without principal")
		}
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if err := v.scanLocked(AclWriteAttributes); err != nil {
		return err
	}

	v.entries = append([]AclEntry(nil), entries...)
	return nil
}

// Owner returns the owning user.
func (v *AclView) Owner() (*User, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	return v.owner, nil
}

// SetOwner replaces the owning user; requires WRITE on the entry.
func (v *AclView) SetOwner(owner *User) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}
	if owner == nil {
		return data.InvalidArgument("owner must not be nil")
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if err := v.entry.checkAccessLocked(data.AccessWrite); err != nil {
		return err
	}

	v.owner = owner
	return nil
}

// scanLocked walks the entries in order for the requested permission.
// Entries that do not cover the permission are skipped even when the
// principal matches; an empty or non-matching list grants.
func (v *AclView) scanLocked(perm AclPermission) error {
	principals := v.entry.fs.principals
	user := principals.currentUser()
	group := principals.currentGroup()

	for _, e := range v.entries {
		if !e.Permissions.Has(perm) {
			continue
		}
		if !matchesPrincipal(e.Principal, user, group) {
			continue
		}
		switch e.Type {
		case AclAllow:
			return nil
		case AclDeny:
			return data.ErrAccessDenied
		}
	}

	return nil
}

func matchesPrincipal(p Principal, user *User, group *Group) bool {
	switch principal := p.(type) {
	case *User:
		return principal.Equal(user)
	case *Group:
		return principal.Equal(group)
	default:
		return false
	}
}

func (v *AclView) checkAccessLocked(mode data.AccessMode) error {
	switch mode {
	case data.AccessRead:
		return v.scanLocked(AclReadData)
	case data.AccessWrite:
		return v.scanLocked(AclWriteData)
	case data.AccessExecute:
		return v.scanLocked(AclExecute)
	default:
		return data.Unsupported("access mode " + mode.String())
	}
}

func (v *AclView) readAttributeLocked(field string) (any, bool, error) {
	switch field {
	case "acl":
		out := make([]AclEntry, len(v.entries))
		copy(out, v.entries)
		return out, true, nil
	case "owner":
		return v.owner, true, nil
	default:
		return nil, false, nil
	}
}

func (v *AclView) writeAttributeLocked(field string, value any) (bool, error) {
	switch field {
	case "acl":
		entries, ok := value.([]AclEntry)
		if !ok {
			return false, data.InvalidArgument("attribute 'acl:acl' requires an entry list")
		}
		v.entries = append([]AclEntry(nil), entries...)
		return true, nil
	case "owner":
		owner, ok := value.(*User)
		if !ok || owner == nil {
			return false, data.InvalidArgument("attribute 'acl:owner' requires a user")
		}
		v.owner = owner
		return true, nil
	default:
		return false, nil
	}
}

func (v *AclView) checkReadAccessLocked(field string) error {
	if field == "acl" {
		return v.scanLocked(AclReadAttributes)
	}

	return nil
}

func (v *AclView) checkWriteAccessLocked(field string) error {
	if field == "acl" {
		return v.scanLocked(AclWriteAttributes)
	}

	return v.entry.checkAccessLocked(data.AccessWrite)
}

func (v *AclView) copyFromLocked(other attributeView) {
	src, ok := other.(*AclView)
	if !ok {
		return
	}

	v.owner = src.owner
	v.entries = append([]AclEntry(nil), src.entries...)
}

func (v *AclView) initializeRootLocked() {}

func (v *AclView) ownerLocked() *User {
	return v.owner
}

func (v *AclView) setOwnerLocked(owner *User) {
	v.owner = owner
}
