package memfs

import (
	"errors"
	"io"
	"testing"

	"github.com/mwantia/memfs/data"
)

func openTestFile(t *testing.T, fs *MemoryFileSystem, name string, flags data.OpenFlag, content []byte) *File {
	t.Helper()

	ctx := t.Context()
	p := mustPath(t, fs, name)
	if content != nil {
		if err := fs.WriteFile(ctx, p, content); err != nil {
			t.Fatalf("setup write failed: %v", err)
		}
	}

	h, err := fs.OpenFile(ctx, p, flags)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	return h
}

func TestFile_ReadWriteSeek(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	h := openTestFile(t, fs, "/f", data.OpenRead|data.OpenWrite, []byte("0123456789"))

	buf := make([]byte, 4)
	n, err := h.Read(buf)
	if err != nil || n != 4 || string(buf) != "0123" {
		t.Errorf("expected '0123', got %q (%v)", buf[:n], err)
	}
	if h.Position() != 4 {
		t.Errorf("expected position 4, got %d", h.Position())
	}

	if _, err := h.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := h.Write([]byte("xx")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := h.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	all := make([]byte, 10)
	if _, err := h.Read(all); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(all) != "01xx456789" {
		t.Errorf("expected '01xx456789', got %q", all)
	}

	// Reading at the end returns EOF.
	if _, err := h.Read(buf); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}

	// SeekEnd
	pos, err := h.Seek(-2, io.SeekEnd)
	if err != nil || pos != 8 {
		t.Errorf("expected position 8, got %d (%v)", pos, err)
	}

	if _, err := h.Seek(-20, io.SeekCurrent); !errors.Is(err, data.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative position, got %v", err)
	}
}

func TestFile_WriteGapZeroFills(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	h := openTestFile(t, fs, "/f", data.OpenRead|data.OpenWrite, []byte("ab"))

	if _, err := h.WriteAt([]byte("z"), 5); err != nil {
		t.Fatalf("WriteAt failed: %v", err)
	}

	size, err := h.Size()
	if err != nil || size != 6 {
		t.Fatalf("expected size 6, got %d (%v)", size, err)
	}

	buf := make([]byte, 6)
	if _, err := h.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	expected := []byte{'a', 'b', 0, 0, 0, 'z'}
	if string(buf) != string(expected) {
		t.Errorf("expected %q, got %q", expected, buf)
	}
}

func TestFile_Truncate(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	h := openTestFile(t, fs, "/f", data.OpenRead|data.OpenWrite, []byte("0123456789"))

	if err := h.Truncate(4); err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}
	if size, _ := h.Size(); size != 4 {
		t.Errorf("expected size 4, got %d", size)
	}

	// Truncating larger is a no-op.
	if err := h.Truncate(100); err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}
	if size, _ := h.Size(); size != 4 {
		t.Errorf("expected size to stay 4, got %d", size)
	}
}

func TestFile_AccessModes(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	reader := openTestFile(t, fs, "/r", data.OpenRead, []byte("x"))
	if _, err := reader.Write([]byte("y")); !errors.Is(err, data.ErrNonWritable) {
		t.Errorf("expected ErrNonWritable, got %v", err)
	}
	if err := reader.Truncate(0); !errors.Is(err, data.ErrNonWritable) {
		t.Errorf("expected ErrNonWritable on truncate, got %v", err)
	}

	writer := openTestFile(t, fs, "/w", data.OpenWrite, []byte("x"))
	if _, err := writer.Read(make([]byte, 1)); !errors.Is(err, data.ErrNonReadable) {
		t.Errorf("expected ErrNonReadable, got %v", err)
	}
}

func TestFile_TruncateOnOpen(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/f")
	if err := fs.WriteFile(ctx, p, []byte("old content")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	h, err := fs.OpenFile(ctx, p, data.OpenWrite|data.OpenTruncate)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer h.Close()

	if size, _ := h.Size(); size != 0 {
		t.Errorf("expected truncated size 0, got %d", size)
	}
}

func TestFile_CloseIdempotent(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	h := openTestFile(t, fs, "/f", data.OpenRead, []byte("x"))

	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if _, err := h.Read(make([]byte, 1)); !errors.Is(err, data.ErrClosedHandle) {
		t.Errorf("expected ErrClosedHandle, got %v", err)
	}
}

func TestByteStore_Basics(t *testing.T) {
	s := &byteStore{}

	if s.size() != 0 {
		t.Errorf("expected empty store, got %d", s.size())
	}

	n := s.writeAt([]byte("abc"), 0)
	if n != 3 || s.size() != 3 {
		t.Errorf("expected 3 bytes written, got n=%d size=%d", n, s.size())
	}

	// Gap write zero-fills.
	s.writeAt([]byte("z"), 6)
	if s.size() != 7 {
		t.Errorf("expected size 7, got %d", s.size())
	}
	buf := make([]byte, 7)
	s.readAt(buf, 0)
	if string(buf) != "abc\x00\x00\x00z" {
		t.Errorf("unexpected content %q", buf)
	}

	// Read past the tail returns zero.
	if n := s.readAt(buf, 10); n != 0 {
		t.Errorf("expected 0 bytes past tail, got %d", n)
	}

	s.truncate(2)
	if s.size() != 2 {
		t.Errorf("expected size 2 after truncate, got %d", s.size())
	}
	s.truncate(10)
	if s.size() != 2 {
		t.Errorf("expected truncate growth to be a no-op, got %d", s.size())
	}

	clone := s.clone()
	clone.writeAt([]byte("X"), 0)
	if string(s.data[:1]) == "X" {
		t.Error("expected clone to be independent")
	}
}
