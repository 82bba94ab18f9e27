package memfs

import (
	"context"
	"sync/atomic"

	"github.com/mwantia/memfs/data"
)

// WatchService is a handle for observing tree changes. Event
// dispatch is delivered by an embedding layer; the service itself
// only tracks its open state next to the owning filesystem's.
type WatchService struct {
	fs   *MemoryFileSystem
	open atomic.Bool
}

// NewWatchService returns a watch handle bound to this filesystem.
func (fs *MemoryFileSystem) NewWatchService() *WatchService {
	w := &WatchService{fs: fs}
	w.open.Store(true)

	return w
}

// IsOpen reports whether the watch handle is still open.
func (w *WatchService) IsOpen() bool {
	return w.open.Load()
}

// Close closes the watch handle; closing twice is a no-op.
func (w *WatchService) Close() error {
	w.open.Store(false)
	return nil
}

// Poll drains pending events. A closed filesystem fails first, then
// a closed watch handle.
func (w *WatchService) Poll(_ context.Context) ([]*Path, error) {
	if err := w.fs.checkOpen(); err != nil {
		return nil, err
	}
	if !w.open.Load() {
		return nil, data.ErrClosedWatch
	}

	return nil, nil
}
