package memfs

import (
	"context"

	"github.com/mwantia/memfs/data"
)

// GetBasicView returns the always-present basic view of the entry
// at p.
func (fs *MemoryFileSystem) GetBasicView(_ context.Context, p *Path) (*BasicView, error) {
	node, err := fs.viewEntry(p)
	if err != nil {
		return nil, err
	}

	return node.views.basic, nil
}

// GetPosixView returns the POSIX view, or Unsupported when the
// filesystem is not configured with it.
func (fs *MemoryFileSystem) GetPosixView(_ context.Context, p *Path) (*PosixView, error) {
	node, err := fs.viewEntry(p)
	if err != nil {
		return nil, err
	}

	view, err := node.views.byName(ViewPosix)
	if err != nil {
		return nil, err
	}

	return view.(*PosixView), nil
}

// GetDosView returns the DOS view, or Unsupported when the
// filesystem is not configured with it.
func (fs *MemoryFileSystem) GetDosView(_ context.Context, p *Path) (*DosView, error) {
	node, err := fs.viewEntry(p)
	if err != nil {
		return nil, err
	}

	view, err := node.views.byName(ViewDos)
	if err != nil {
		return nil, err
	}

	return view.(*DosView), nil
}

// GetAclView returns the ACL view, or Unsupported when the
// filesystem is not configured with it.
func (fs *MemoryFileSystem) GetAclView(_ context.Context, p *Path) (*AclView, error) {
	node, err := fs.viewEntry(p)
	if err != nil {
		return nil, err
	}

	view, err := node.views.byName(ViewAcl)
	if err != nil {
		return nil, err
	}

	return view.(*AclView), nil
}

// GetUserView returns the user-defined attribute view, or Unsupported
// when the filesystem is not configured with it.
func (fs *MemoryFileSystem) GetUserView(_ context.Context, p *Path) (*UserView, error) {
	node, err := fs.viewEntry(p)
	if err != nil {
		return nil, err
	}

	view, err := node.views.byName(ViewUser)
	if err != nil {
		return nil, err
	}

	return view.(*UserView), nil
}

// OwnerView projects owner queries onto the POSIX view when present,
// falling back to the ACL view.
type OwnerView struct {
	entry  *entry
	holder ownerHolder
}

// GetOwnerView returns the owner projection, or Unsupported when
// neither the POSIX nor the ACL view is configured.
func (fs *MemoryFileSystem) GetOwnerView(_ context.Context, p *Path) (*OwnerView, error) {
	node, err := fs.viewEntry(p)
	if err != nil {
		return nil, err
	}

	holder, err := node.views.ownerView()
	if err != nil {
		return nil, err
	}

	return &OwnerView{entry: node, holder: holder}, nil
}

// Owner returns the owning user.
func (v *OwnerView) Owner() (*User, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	return v.holder.ownerLocked(), nil
}

// SetOwner replaces the owning user; requires WRITE on the entry.
func (v *OwnerView) SetOwner(owner *User) error {
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

	v.holder.setOwnerLocked(owner)
	return nil
}

// viewEntry is the shared resolution step of the view accessors:
// closed check first, then traversal with symlinks followed.
func (fs *MemoryFileSystem) viewEntry(p *Path) (*entry, error) {
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := fs.requirePath(p); err != nil {
		return nil, err
	}

	return fs.resolveEntry(p, true)
}
