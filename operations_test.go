package memfs

import (
	"errors"
	"sync"
	"testing"

	"github.com/mwantia/memfs/data"
)

func TestOperations_CreateFileMissingParent(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/a/b.txt")
	err := fs.CreateFile(ctx, p)
	if !errors.Is(err, data.ErrNoSuchFile) {
		t.Fatalf("expected ErrNoSuchFile, got %v", err)
	}
	// The failure names the missing prefix, not the full path.
	if err.Error() != data.NoSuchFile("/a").Error() {
		t.Errorf("expected missing prefix '/a' in error, got %v", err)
	}

	if err := fs.CreateDirectory(ctx, mustPath(t, fs, "/a")); err != nil {
		t.Fatalf("CreateDirectory failed: %v", err)
	}
	if err := fs.CreateFile(ctx, p); err != nil {
		t.Fatalf("CreateFile failed after parent exists: %v", err)
	}

	if !fs.Exists(ctx, p) {
		t.Error("expected file to exist")
	}
	if !fs.IsRegularFile(ctx, p) {
		t.Error("expected a regular file")
	}
}

func TestOperations_CreateExisting(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/a")
	if err := fs.CreateDirectory(ctx, p); err != nil {
		t.Fatalf("CreateDirectory failed: %v", err)
	}
	if err := fs.CreateDirectory(ctx, p); !errors.Is(err, data.ErrExist) {
		t.Errorf("expected ErrExist, got %v", err)
	}
	if err := fs.CreateFile(ctx, p); !errors.Is(err, data.ErrExist) {
		t.Errorf("expected ErrExist for file over directory, got %v", err)
	}
}

func TestOperations_CreateDirectories(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/a/b/c")
	if err := fs.CreateDirectories(ctx, p); err != nil {
		t.Fatalf("CreateDirectories failed: %v", err)
	}
	if !fs.IsDirectory(ctx, p) {
		t.Error("expected directory tree to exist")
	}

	// Idempotent for existing prefixes.
	if err := fs.CreateDirectories(ctx, p); err != nil {
		t.Errorf("CreateDirectories on existing tree failed: %v", err)
	}
}

func TestOperations_WriteAndAppendHandles(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.CreateDirectory(ctx, mustPath(t, fs, "/a")); err != nil {
		t.Fatalf("CreateDirectory failed: %v", err)
	}
	p := mustPath(t, fs, "/a/b")
	if err := fs.CreateFile(ctx, p); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	h1, err := fs.OpenFile(ctx, p, data.OpenWrite)
	if err != nil {
		t.Fatalf("open write handle failed: %v", err)
	}
	defer h1.Close()

	h2, err := fs.OpenFile(ctx, p, data.OpenAppend)
	if err != nil {
		t.Fatalf("open append handle failed: %v", err)
	}
	defer h2.Close()

	if _, err := h1.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := h2.Write([]byte("!")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	content, err := fs.ReadFile(ctx, p)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "hello!" {
		t.Errorf("expected 'hello!', got %q", content)
	}
	if len(content) != 6 {
		t.Errorf("expected length 6, got %d", len(content))
	}
}

func TestOperations_UnlinkWhileOpen(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/x")
	if err := fs.WriteFile(ctx, p, []byte("payload")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	h, err := fs.OpenFile(ctx, p, data.OpenRead)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer h.Close()

	if err := fs.Delete(ctx, p); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// The handle keeps the content alive.
	buf := make([]byte, 16)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("read after unlink failed: %v", err)
	}
	if string(buf[:n]) != "payload" {
		t.Errorf("expected 'payload', got %q", buf[:n])
	}

	// The tree no longer resolves the path.
	if _, err := fs.Stat(ctx, p, false); !errors.Is(err, data.ErrNoSuchFile) {
		t.Errorf("expected ErrNoSuchFile after delete, got %v", err)
	}
}

func TestOperations_DeleteNonEmptyDirectory(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/a/b")); err != nil {
		t.Fatalf("CreateDirectories failed: %v", err)
	}

	err := fs.Delete(ctx, mustPath(t, fs, "/a"))
	if !errors.Is(err, data.ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}

	if err := fs.Delete(ctx, mustPath(t, fs, "/a/b")); err != nil {
		t.Fatalf("delete of empty child failed: %v", err)
	}
	if err := fs.Delete(ctx, mustPath(t, fs, "/a")); err != nil {
		t.Fatalf("delete of emptied parent failed: %v", err)
	}
}

func TestOperations_DeleteMissing(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	err := fs.Delete(t.Context(), mustPath(t, fs, "/nope"))
	if !errors.Is(err, data.ErrNoSuchFile) {
		t.Errorf("expected ErrNoSuchFile, got %v", err)
	}
}

func TestOperations_Move(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/src")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/dst")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.WriteFile(ctx, mustPath(t, fs, "/src/f"), []byte("data")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	src := mustPath(t, fs, "/src/f")
	dst := mustPath(t, fs, "/dst/g")

	if err := fs.Move(ctx, src, dst, 0); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if fs.Exists(ctx, src) {
		t.Error("expected source to be gone")
	}
	content, err := fs.ReadFile(ctx, dst)
	if err != nil || string(content) != "data" {
		t.Errorf("expected moved content, got %q (%v)", content, err)
	}

	// Missing source
	if err := fs.Move(ctx, src, dst, 0); !errors.Is(err, data.ErrNoSuchFile) {
		t.Errorf("expected ErrNoSuchFile, got %v", err)
	}
}

func TestOperations_MoveReplaceExisting(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.WriteFile(ctx, mustPath(t, fs, "/a"), []byte("aaa")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.WriteFile(ctx, mustPath(t, fs, "/b"), []byte("bbb")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	src := mustPath(t, fs, "/a")
	dst := mustPath(t, fs, "/b")

	if err := fs.Move(ctx, src, dst, 0); !errors.Is(err, data.ErrExist) {
		t.Errorf("expected ErrExist without ReplaceExisting, got %v", err)
	}

	if err := fs.Move(ctx, src, dst, data.ReplaceExisting); err != nil {
		t.Fatalf("Move with ReplaceExisting failed: %v", err)
	}
	content, _ := fs.ReadFile(ctx, dst)
	if string(content) != "aaa" {
		t.Errorf("expected replaced content 'aaa', got %q", content)
	}
}

func TestOperations_MoveNonEmptyDirectoryTarget(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/src")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/dst/keep")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	err := fs.Move(ctx, mustPath(t, fs, "/src"), mustPath(t, fs, "/dst"), data.ReplaceExisting)
	if !errors.Is(err, data.ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}
}

func TestOperations_MoveIntoOwnSubtree(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/a/b")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	err := fs.Move(ctx, mustPath(t, fs, "/a"), mustPath(t, fs, "/a/b/c"), 0)
	if !errors.Is(err, data.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}

	// With an existing target the rejection still happens before any
	// removal: the failed move leaves the tree untouched.
	if err := fs.CreateFile(ctx, mustPath(t, fs, "/a/b/c")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	err = fs.Move(ctx, mustPath(t, fs, "/a"), mustPath(t, fs, "/a/b/c"), data.ReplaceExisting)
	if !errors.Is(err, data.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation with ReplaceExisting, got %v", err)
	}
	if !fs.Exists(ctx, mustPath(t, fs, "/a/b/c")) {
		t.Error("expected target to survive the rejected move")
	}
	if !fs.Exists(ctx, mustPath(t, fs, "/a")) {
		t.Error("expected source to survive the rejected move")
	}
}

func TestOperations_MoveKeepsOpenHandles(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/f")
	if err := fs.WriteFile(ctx, p, []byte("before")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	h, err := fs.OpenFile(ctx, p, data.OpenRead)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer h.Close()

	if err := fs.Move(ctx, p, mustPath(t, fs, "/g"), 0); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	buf := make([]byte, 16)
	n, err := h.Read(buf)
	if err != nil || string(buf[:n]) != "before" {
		t.Errorf("expected handle to survive the move, got %q (%v)", buf[:n], err)
	}
}

func TestOperations_Copy(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	src := mustPath(t, fs, "/src")
	dst := mustPath(t, fs, "/dst")
	if err := fs.WriteFile(ctx, src, []byte("payload")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := fs.Copy(ctx, src, dst, 0); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	// Independent content
	if err := fs.AppendFile(ctx, dst, []byte("!")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	original, _ := fs.ReadFile(ctx, src)
	if string(original) != "payload" {
		t.Errorf("source content changed to %q", original)
	}

	// Existing target without ReplaceExisting
	if err := fs.Copy(ctx, src, dst, 0); !errors.Is(err, data.ErrExist) {
		t.Errorf("expected ErrExist, got %v", err)
	}
}

func TestOperations_CopyAttributes(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	src := mustPath(t, fs, "/src")
	if err := fs.CreateFile(ctx, src); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	posix, err := fs.GetPosixView(ctx, src)
	if err != nil {
		t.Fatalf("GetPosixView failed: %v", err)
	}
	if err := posix.SetPermissions(0o640); err != nil {
		t.Fatalf("SetPermissions failed: %v", err)
	}

	user, err := fs.GetUserView(ctx, src)
	if err != nil {
		t.Fatalf("GetUserView failed: %v", err)
	}
	if _, err := user.Write("origin", []byte("test")); err != nil {
		t.Fatalf("user attribute write failed: %v", err)
	}

	dst := mustPath(t, fs, "/dst")
	if err := fs.Copy(ctx, src, dst, data.CopyAttributes); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	dstPosix, err := fs.GetPosixView(ctx, dst)
	if err != nil {
		t.Fatalf("GetPosixView on copy failed: %v", err)
	}
	perms, err := dstPosix.Permissions()
	if err != nil {
		t.Fatalf("Permissions failed: %v", err)
	}
	if perms != 0o640 {
		t.Errorf("expected permissions 0640 carried over, got %o", perms)
	}

	dstUser, err := fs.GetUserView(ctx, dst)
	if err != nil {
		t.Fatalf("GetUserView on copy failed: %v", err)
	}
	buf := make([]byte, 4)
	if _, err := dstUser.Read("origin", buf); err != nil {
		t.Fatalf("user attribute read on copy failed: %v", err)
	}
	if string(buf) != "test" {
		t.Errorf("expected user attribute carried over, got %q", buf)
	}

	// Without CopyAttributes the target starts fresh with the umask.
	fresh := mustPath(t, fs, "/fresh")
	if err := fs.Copy(ctx, src, fresh, 0); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	freshPosix, _ := fs.GetPosixView(ctx, fresh)
	perms, _ = freshPosix.Permissions()
	if perms != fs.Umask() {
		t.Errorf("expected fresh permissions %o, got %o", fs.Umask(), perms)
	}
}

func TestOperations_ReadDirectory(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	dir := mustPath(t, fs, "/d")
	if err := fs.CreateDirectory(ctx, dir); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	for _, name := range []string{"c", "a", "b"} {
		if err := fs.CreateFile(ctx, mustPath(t, fs, "/d/"+name)); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	entries, err := fs.ReadDirectory(ctx, dir, nil)
	if err != nil {
		t.Fatalf("ReadDirectory failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Entries come back in folded name order.
	for i, expected := range []string{"a", "b", "c"} {
		if entries[i].FileName() != expected {
			t.Errorf("entry %d: expected %s, got %s", i, expected, entries[i].FileName())
		}
	}

	// Snapshot is stable against later mutation.
	if err := fs.Delete(ctx, entries[0]); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if entries[0].FileName() != "a" {
		t.Error("snapshot mutated by delete")
	}

	// Filter
	filtered, err := fs.ReadDirectory(ctx, dir, func(p *Path) bool {
		return p.FileName() == "b"
	})
	if err != nil {
		t.Fatalf("ReadDirectory with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].FileName() != "b" {
		t.Errorf("expected only 'b', got %v", filtered)
	}

	// Not a directory
	if _, err := fs.ReadDirectory(ctx, mustPath(t, fs, "/d/b"), nil); !errors.Is(err, data.ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestOperations_Symlinks(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/real")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.WriteFile(ctx, mustPath(t, fs, "/real/f"), []byte("via link")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	link := mustPath(t, fs, "/ln")
	target := mustPath(t, fs, "/real")
	if err := fs.CreateSymlink(ctx, link, target); err != nil {
		t.Fatalf("CreateSymlink failed: %v", err)
	}

	// The stored target comes back verbatim.
	stored, err := fs.ReadSymbolicLink(ctx, link)
	if err != nil {
		t.Fatalf("ReadSymbolicLink failed: %v", err)
	}
	if !stored.Equal(target) {
		t.Errorf("expected stored target %s, got %s", target, stored)
	}

	// Resolution through the link
	content, err := fs.ReadFile(ctx, mustPath(t, fs, "/ln/f"))
	if err != nil {
		t.Fatalf("read through symlink failed: %v", err)
	}
	if string(content) != "via link" {
		t.Errorf("expected content through link, got %q", content)
	}

	if !fs.IsSymlink(ctx, link) {
		t.Error("expected IsSymlink on the link itself")
	}
	if fs.IsSymlink(ctx, mustPath(t, fs, "/real")) {
		t.Error("did not expect IsSymlink on a directory")
	}

	// ToRealPath resolves the link
	real, err := fs.ToRealPath(ctx, mustPath(t, fs, "/ln/f"))
	if err != nil {
		t.Fatalf("ToRealPath failed: %v", err)
	}
	if real.String() != "/real/f" {
		t.Errorf("expected /real/f, got %s", real)
	}

	// Relative target resolves against the link's directory.
	rel := mustPath(t, fs, "f")
	if err := fs.CreateSymlink(ctx, mustPath(t, fs, "/real/rel"), rel); err != nil {
		t.Fatalf("CreateSymlink failed: %v", err)
	}
	content, err = fs.ReadFile(ctx, mustPath(t, fs, "/real/rel"))
	if err != nil || string(content) != "via link" {
		t.Errorf("relative symlink resolution failed: %q (%v)", content, err)
	}
}

func TestOperations_SymlinkCycle(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	a := mustPath(t, fs, "/a")
	b := mustPath(t, fs, "/b")
	if err := fs.CreateSymlink(ctx, a, b); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.CreateSymlink(ctx, b, a); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, err := fs.Stat(ctx, a, false)
	if !errors.Is(err, data.ErrTooManyLinks) {
		t.Errorf("expected ErrTooManyLinks, got %v", err)
	}
}

func TestOperations_ConcurrentCreate(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/contested")

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- fs.CreateFile(ctx, p)
		}()
	}
	wg.Wait()
	close(results)

	created, existed := 0, 0
	for err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, data.ErrExist):
			existed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if created != 1 {
		t.Errorf("expected exactly one create to win, got %d", created)
	}
	if existed != workers-1 {
		t.Errorf("expected %d ErrExist, got %d", workers-1, existed)
	}
}

func TestOperations_CrossFilesystem(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())

	reg := NewRegistry()
	other, err := reg.New("memory:cross-other", NewPosixConfig())
	if err != nil {
		t.Fatalf("second filesystem failed: %v", err)
	}
	defer other.Close()

	ctx := t.Context()
	src := mustPath(t, fs, "/f")
	if err := fs.WriteFile(ctx, src, []byte("x")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	foreign := mustPath(t, other, "/f")
	if err := fs.Move(ctx, src, foreign, 0); !errors.Is(err, data.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation for cross-filesystem move, got %v", err)
	}
	if err := fs.Copy(ctx, src, foreign, 0); !errors.Is(err, data.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation for cross-filesystem copy, got %v", err)
	}
	if err := fs.CreateSymlink(ctx, mustPath(t, fs, "/ln"), foreign); !errors.Is(err, data.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation for foreign symlink target, got %v", err)
	}
}

func TestOperations_OpenDirectory(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	d := mustPath(t, fs, "/d")
	if err := fs.CreateDirectory(ctx, d); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := fs.OpenFile(ctx, d, data.OpenRead); !errors.Is(err, data.ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
}

func TestOperations_OpenCreateNew(t *testing.T) {
	fs := newTestFS(t, NewPosixConfig())
	ctx := t.Context()

	p := mustPath(t, fs, "/x")
	h, err := fs.OpenFile(ctx, p, data.OpenWrite|data.OpenCreateNew)
	if err != nil {
		t.Fatalf("exclusive create failed: %v", err)
	}
	h.Close()

	if _, err := fs.OpenFile(ctx, p, data.OpenWrite|data.OpenCreateNew); !errors.Is(err, data.ErrExist) {
		t.Errorf("expected ErrExist on second exclusive create, got %v", err)
	}
}

func TestOperations_RelativePaths(t *testing.T) {
	cfg := NewPosixConfig()
	cfg.DefaultDirectory = "/work"
	fs := newTestFS(t, cfg)
	ctx := t.Context()

	if err := fs.CreateDirectories(ctx, mustPath(t, fs, "/work")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	rel := mustPath(t, fs, "notes.txt")
	if err := fs.WriteFile(ctx, rel, []byte("relative")); err != nil {
		t.Fatalf("WriteFile on relative path failed: %v", err)
	}

	content, err := fs.ReadFile(ctx, mustPath(t, fs, "/work/notes.txt"))
	if err != nil || string(content) != "relative" {
		t.Errorf("expected relative path anchored at default directory, got %q (%v)", content, err)
	}
}

func TestOperations_ReadAttributesSpec(t *testing.T) {
	fs := newTestFS(t, NewWindowsConfig())
	ctx := t.Context()

	p := mustPath(t, fs, `C:\file.txt`)
	if err := fs.WriteFile(ctx, p, []byte("1234")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := fs.SetAttribute(ctx, p, "dos:hidden", true); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}

	attrs, err := fs.ReadAttributes(ctx, p, "dos:hidden,size,unknown")
	if err != nil {
		t.Fatalf("ReadAttributes failed: %v", err)
	}

	if hidden, ok := attrs["hidden"].(bool); !ok || !hidden {
		t.Errorf("expected hidden=true, got %v", attrs["hidden"])
	}
	if size, ok := attrs["size"].(int64); !ok || size != 4 {
		t.Errorf("expected size=4, got %v", attrs["size"])
	}
	// Unknown fields are skipped on read.
	if _, ok := attrs["unknown"]; ok {
		t.Error("expected unknown field to be skipped")
	}

	// Unknown fields fail on write.
	if err := fs.SetAttribute(ctx, p, "dos:unknown", true); !errors.Is(err, data.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	// Unsupported view
	if _, err := fs.ReadAttributes(ctx, p, "posix:permissions"); !errors.Is(err, data.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestOperations_CaseInsensitiveLookup(t *testing.T) {
	fs := newTestFS(t, NewWindowsConfig())
	ctx := t.Context()

	if err := fs.CreateDirectory(ctx, mustPath(t, fs, `C:\Temp`)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := fs.WriteFile(ctx, mustPath(t, fs, `C:\TEMP\File.TXT`), []byte("x")); err != nil {
		t.Fatalf("write through different casing failed: %v", err)
	}

	if !fs.Exists(ctx, mustPath(t, fs, `c:\temp\file.txt`)) {
		t.Error("expected case-insensitive resolution")
	}

	// The original casing is preserved in listings.
	entries, err := fs.ReadDirectory(ctx, mustPath(t, fs, `c:\temp`), nil)
	if err != nil {
		t.Fatalf("ReadDirectory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].FileName() != "File.TXT" {
		t.Errorf("expected original casing 'File.TXT', got %v", entries)
	}

	// Creating a name differing only in case collides.
	if err := fs.CreateFile(ctx, mustPath(t, fs, `C:\temp\FILE.txt`)); !errors.Is(err, data.ErrExist) {
		t.Errorf("expected ErrExist, got %v", err)
	}
}
