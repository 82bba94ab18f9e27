package memfs

import (
	"io"
	"sync"

	"github.com/mwantia/memfs/data"
)

// File is an open cursor over a regular file. The handle owns its
// entry independently of the directory tree: unlinking the entry
// keeps the content alive until every handle is closed.
// A File is safe for concurrent use; ordering between handles on the
// same entry is defined by the entry's write lock around each call.
type File struct {
	fs    *MemoryFileSystem
	entry *entry
	path  *Path
	flags data.OpenFlag

	mu     sync.Mutex
	pos    int64
	closed bool
}

// Path returns the path the handle was opened under.
func (f *File) Path() *Path {
	return f.path
}

// check gates every handle operation: a closed filesystem is terminal
// before the handle's own state is consulted.
func (f *File) check(write bool) error {
	if err := f.fs.checkOpen(); err != nil {
		return err
	}
	if f.closed {
		return data.ErrClosedHandle
	}
	if write && !f.flags.CanWrite() {
		return data.ErrNonWritable
	}
	if !write && !f.flags.CanRead() {
		return data.ErrNonReadable
	}

	return nil
}

// Read reads from the current position, advancing it.
// Returns io.EOF at end of file.
func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.check(false); err != nil {
		return 0, err
	}

	e := f.entry
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.content.readAt(p, f.pos)
	f.pos += int64(n)
	e.accessedLocked()

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}

	return n, nil
}

// ReadAt reads at the given position without touching the cursor.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.check(false); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, data.InvalidArgument("negative read offset")
	}

	e := f.entry
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.content.readAt(p, off)
	e.accessedLocked()

	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Write writes at the current position, advancing it. A handle opened
// with append positions to the file size first, atomically under the
// entry's write lock.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.check(true); err != nil {
		return 0, err
	}

	e := f.entry
	e.mu.Lock()
	defer e.mu.Unlock()

	if f.flags.HasAppend() {
		f.pos = e.content.size()
	}

	n := e.content.writeAt(p, f.pos)
	f.pos += int64(n)
	e.modifiedLocked()

	return n, nil
}

// WriteAt writes at the given position without touching the cursor.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.check(true); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, data.InvalidArgument("negative write offset")
	}

	e := f.entry
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.content.writeAt(p, off)
	e.modifiedLocked()

	return n, nil
}

// Seek repositions the cursor per the io.Seeker contract.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fs.checkOpen(); err != nil {
		return 0, err
	}
	if f.closed {
		return 0, data.ErrClosedHandle
	}

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		f.entry.mu.RLock()
		base = f.entry.content.size()
		f.entry.mu.RUnlock()
	default:
		return 0, data.InvalidArgument("unknown seek whence")
	}

	pos := base + offset
	if pos < 0 {
		return 0, data.InvalidArgument("negative seek position")
	}

	f.pos = pos
	return pos, nil
}

// Position returns the current cursor position.
func (f *File) Position() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pos
}

// Size returns the current content size.
func (f *File) Size() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fs.checkOpen(); err != nil {
		return 0, err
	}
	if f.closed {
		return 0, data.ErrClosedHandle
	}

	f.entry.mu.RLock()
	defer f.entry.mu.RUnlock()

	return f.entry.content.size(), nil
}

// Truncate resizes the content; growing is a no-op.
func (f *File) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.check(true); err != nil {
		return err
	}
	if size < 0 {
		return data.InvalidArgument("negative truncate size")
	}

	e := f.entry
	e.mu.Lock()
	defer e.mu.Unlock()

	e.content.truncate(size)
	e.modifiedLocked()

	return nil
}

// Close releases the handle. Closing twice is a no-op; the last close
// of an unlinked entry releases its content.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	e := f.entry
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handles--
	if e.handles == 0 && e.parent == nil {
		e.content = &byteStore{}
	}

	return nil
}
