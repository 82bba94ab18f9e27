package memfs

import (
	"strings"

	"github.com/mwantia/memfs/data"
)

// Attribute names an initial attribute applied at entry creation,
// in "view:field" form ("dos:hidden"); a bare field addresses the
// basic view.
type Attribute struct {
	Name  string
	Value any
}

// Attr builds an Attribute for create and open calls.
func Attr(name string, value any) Attribute {
	return Attribute{Name: name, Value: value}
}

// attributeView is one named bundle of attributes on an entry.
// All methods require the owning entry's lock; write methods are raw
// and leave access enforcement to checkWriteAccessLocked.
type attributeView interface {
	viewName() string

	readAttributeLocked(field string) (any, bool, error)
	writeAttributeLocked(field string, value any) (bool, error)

	checkReadAccessLocked(field string) error
	checkWriteAccessLocked(field string) error

	copyFromLocked(other attributeView)
	initializeRootLocked()
}

// accessChecker is implemented by views contributing to access checks.
type accessChecker interface {
	checkAccessLocked(mode data.AccessMode) error
}

// viewSet is the per-entry bundle of attribute views, keyed by
// canonical view name. The basic view is always present.
type viewSet struct {
	entry      *entry
	basic      *BasicView
	additional map[string]attributeView
}

func newViewSet(e *entry) *viewSet {
	vs := &viewSet{
		entry:      e,
		basic:      &BasicView{entry: e},
		additional: make(map[string]attributeView),
	}

	for _, name := range e.fs.additionalViews {
		switch name {
		case ViewPosix:
			vs.additional[ViewPosix] = newPosixView(e)
		case ViewDos:
			vs.additional[ViewDos] = newDosView(e)
		case ViewAcl:
			vs.additional[ViewAcl] = newAclView(e)
		case ViewUser:
			vs.additional[ViewUser] = newUserView(e)
		}
	}

	return vs
}

// byName resolves a requested view name per the lookup table: basic is
// always present, owner projects onto posix or acl, everything else is
// an exact match against the configured set.
func (vs *viewSet) byName(name string) (attributeView, error) {
	if name == ViewBasic {
		return vs.basic, nil
	}
	if name == ViewOwner {
		owner, err := vs.ownerView()
		if err != nil {
			return nil, err
		}
		return owner.(attributeView), nil
	}

	if view, ok := vs.additional[name]; ok {
		return view, nil
	}

	return nil, data.Unsupported("attribute view '" + name + "'")
}

// ownerView resolves the view answering owner queries. POSIX takes
// precedence over ACL when both are configured.
func (vs *viewSet) ownerView() (ownerHolder, error) {
	if view, ok := vs.additional[ViewPosix]; ok {
		return view.(ownerHolder), nil
	}
	if view, ok := vs.additional[ViewAcl]; ok {
		return view.(ownerHolder), nil
	}

	return nil, data.Unsupported("attribute view 'owner'")
}

// ownerHolder is a view that stores the owning principal.
type ownerHolder interface {
	ownerLocked() *User
	setOwnerLocked(owner *User)
}

// readAttributesLocked reads the named fields of one view into a map.
// Unknown fields are silently skipped; fields of non-basic views fall
// back to the basic view, mirroring how DOS and POSIX attribute reads
// include the basic set.
func (vs *viewSet) readAttributesLocked(view string, fields []string) (map[string]any, error) {
	target, err := vs.byName(view)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields))
	for _, field := range fields {
		if err := target.checkReadAccessLocked(field); err != nil {
			return nil, err
		}
		value, ok, err := target.readAttributeLocked(field)
		if err != nil {
			return nil, err
		}
		if !ok && view != ViewBasic {
			value, ok, err = vs.basic.readAttributeLocked(field)
			if err != nil {
				return nil, err
			}
		}
		if ok {
			out[field] = value
		}
	}

	return out, nil
}

// writeAttributeLocked writes one field with the view's own access
// semantics. Unknown fields fail, unlike reads.
func (vs *viewSet) writeAttributeLocked(view, field string, value any, initial bool) error {
	target, err := vs.byName(view)
	if err != nil {
		return err
	}

	if !initial {
		if err := target.checkWriteAccessLocked(field); err != nil {
			return err
		}
	}

	ok, err := target.writeAttributeLocked(field, value)
	if err != nil {
		return err
	}
	if !ok && view != ViewBasic {
		if !initial {
			if err := vs.basic.checkWriteAccessLocked(field); err != nil {
				return err
			}
		}
		ok, err = vs.basic.writeAttributeLocked(field, value)
		if err != nil {
			return err
		}
	}
	if !ok {
		return data.InvalidArgument("unknown attribute '" + view + ":" + field + "'")
	}

	return nil
}

// applyInitialLocked applies creation-time attributes without access
// checks; the entry is not published yet.
func (vs *viewSet) applyInitialLocked(attrs []Attribute) error {
	for _, attr := range attrs {
		view, field := splitAttributeName(attr.Name)
		if err := vs.writeAttributeLocked(view, field, attr.Value, true); err != nil {
			return err
		}
	}

	return nil
}

// copyFromLocked carries every matching view's state over from the
// source bundle, field-by-field. Views the target does not carry are
// skipped. Caller holds both entries' locks or owns both privately.
func (vs *viewSet) copyFromLocked(other *viewSet) {
	for name, view := range vs.additional {
		if src, ok := other.additional[name]; ok {
			view.copyFromLocked(src)
		}
	}
}

// initializeRootLocked applies root defaults, such as the DOS
// hidden/system flags.
func (vs *viewSet) initializeRootLocked() {
	for _, view := range vs.additional {
		view.initializeRootLocked()
	}
}

// splitAttributeName splits "view:field" into its parts; a bare field
// addresses the basic view.
func splitAttributeName(name string) (string, string) {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[:idx], name[idx+1:]
	}

	return ViewBasic, name
}

// splitAttributeSpec splits "view:a,b,c" into the view name and its
// field list.
func splitAttributeSpec(spec string) (string, []string) {
	view := ViewBasic
	fields := spec
	if idx := strings.IndexByte(spec, ':'); idx >= 0 {
		view = spec[:idx]
		fields = spec[idx+1:]
	}

	var names []string
	for _, field := range strings.Split(fields, ",") {
		if field = strings.TrimSpace(field); field != "" {
			names = append(names, field)
		}
	}

	return view, names
}
