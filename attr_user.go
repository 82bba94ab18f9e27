package memfs

import (
	"github.com/mwantia/memfs/data"
)

// UserView holds user-defined extended attributes: a map from name to
// byte vector, allocated lazily on first write to keep per-entry
// overhead minimal.
type UserView struct {
	entry *entry

	values map[string][]byte
}

func newUserView(e *entry) *UserView {
	return &UserView{entry: e}
}

func (v *UserView) viewName() string {
	return ViewUser
}

// List returns the attribute names, stable for the snapshot.
func (v *UserView) List() ([]string, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return nil, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}

	return names, nil
}

// Size returns the stored value length of one attribute.
func (v *UserView) Size(name string) (int, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return 0, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	value, err := v.valueLocked(name)
	if err != nil {
		return 0, err
	}

	return len(value), nil
}

// Read copies the attribute value into buf and returns the byte count.
// A buffer shorter than the stored value fails without a partial copy.
func (v *UserView) Read(name string, buf []byte) (int, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return 0, err
	}

	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()

	value, err := v.valueLocked(name)
	if err != nil {
		return 0, err
	}
	if len(buf) < len(value) {
		return 0, data.BufferTooSmall(len(value), len(buf))
	}

	return copy(buf, value), nil
}

// Write replaces the attribute value.
func (v *UserView) Write(name string, value []byte) (int, error) {
	if err := v.entry.fs.checkOpen(); err != nil {
		return 0, err
	}
	if name == "" {
		return 0, data.InvalidArgument("attribute name must not be empty")
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if v.values == nil {
		v.values = make(map[string][]byte, 3)
	}
	v.values[name] = append([]byte(nil), value...)

	return len(value), nil
}

// Delete removes an attribute; removing an absent name is a no-op.
func (v *UserView) Delete(name string) error {
	if err := v.entry.fs.checkOpen(); err != nil {
		return err
	}

	v.entry.mu.Lock()
	defer v.entry.mu.Unlock()

	if v.values != nil {
		delete(v.values, name)
	}

	return nil
}

func (v *UserView) valueLocked(name string) ([]byte, error) {
	if v.values == nil {
		return nil, data.InvalidArgument("attribute '" + name + "' not present")
	}

	value, ok := v.values[name]
	if !ok {
		return nil, data.InvalidArgument("attribute '" + name + "' not present")
	}

	return value, nil
}

func (v *UserView) readAttributeLocked(field string) (any, bool, error) {
	if v.values == nil {
		return nil, false, nil
	}

	value, ok := v.values[field]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), value...), true, nil
}

func (v *UserView) writeAttributeLocked(field string, value any) (bool, error) {
	raw, ok := value.([]byte)
	if !ok {
		return false, data.InvalidArgument("attribute 'user:" + field + "' requires a byte slice")
	}

	if v.values == nil {
		v.values = make(map[string][]byte, 3)
	}
	v.values[field] = append([]byte(nil), raw...)

	return true, nil
}

func (v *UserView) checkReadAccessLocked(string) error {
	return nil
}

func (v *UserView) checkWriteAccessLocked(string) error {
	return nil
}

func (v *UserView) copyFromLocked(other attributeView) {
	src, ok := other.(*UserView)
	if !ok || src.values == nil {
		return
	}

	v.values = make(map[string][]byte, len(src.values))
	for name, value := range src.values {
		v.values[name] = append([]byte(nil), value...)
	}
}

func (v *UserView) initializeRootLocked() {}
