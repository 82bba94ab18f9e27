package memfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/memfs"
	"github.com/mwantia/memfs/data"
)

func newSuiteFS(t *testing.T, cfg *memfs.Config) *memfs.MemoryFileSystem {
	t.Helper()

	reg := memfs.NewRegistry()
	fs, err := reg.New("memory:"+t.Name(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	return fs
}

func TestSuite_PosixEndToEnd(t *testing.T) {
	fs := newSuiteFS(t, memfs.NewPosixConfig())
	ctx := t.Context()

	// Missing parent surfaces the missing prefix.
	p, err := fs.Path("/a/b.txt")
	require.NoError(t, err)
	err = fs.CreateFile(ctx, p)
	require.ErrorIs(t, err, data.ErrNoSuchFile)

	dir, err := fs.Path("/a")
	require.NoError(t, err)
	require.NoError(t, fs.CreateDirectory(ctx, dir))
	require.NoError(t, fs.CreateFile(ctx, p))

	assert.True(t, fs.Exists(ctx, p))
	assert.True(t, fs.IsRegularFile(ctx, p))
	assert.True(t, fs.IsDirectory(ctx, dir))

	// Content round trip
	require.NoError(t, fs.WriteFile(ctx, p, []byte("hello world")))
	content, err := fs.ReadFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))

	info, err := fs.Stat(ctx, p, false)
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size)
	assert.Equal(t, "b.txt", info.Name)
	assert.Equal(t, fs.Umask(), info.Perm)
}

func TestSuite_WindowsCaseFolding(t *testing.T) {
	fs := newSuiteFS(t, memfs.NewWindowsConfig())

	c1, err := fs.Path(`C:\TEMP`)
	require.NoError(t, err)
	c2, err := fs.Path(`c:\temp`)
	require.NoError(t, err)

	assert.True(t, c1.Equal(c2))
	assert.Equal(t, `C:\TEMP`, c1.String())
	assert.True(t, c1.HasPrefixString(`c:\`))

	r1, err := fs.Path(`C:\`)
	require.NoError(t, err)
	r2, err := fs.Path(`c:\`)
	require.NoError(t, err)
	assert.True(t, r1.Equal(r2))
	assert.Equal(t, `C:\`, r1.String())
}

func TestSuite_CopyAttributesMatchSource(t *testing.T) {
	cfg := memfs.NewPosixConfig()
	cfg.AdditionalViews = []string{memfs.ViewPosix, memfs.ViewDos, memfs.ViewUser}
	fs := newSuiteFS(t, cfg)
	ctx := t.Context()

	src, err := fs.Path("/src")
	require.NoError(t, err)
	dst, err := fs.Path("/dst")
	require.NoError(t, err)

	require.NoError(t, fs.WriteFile(ctx, src, []byte("payload")))

	posix, err := fs.GetPosixView(ctx, src)
	require.NoError(t, err)
	require.NoError(t, posix.SetPermissions(0o640))

	dos, err := fs.GetDosView(ctx, src)
	require.NoError(t, err)
	require.NoError(t, dos.SetArchive(true))
	require.NoError(t, dos.SetHidden(true))

	user, err := fs.GetUserView(ctx, src)
	require.NoError(t, err)
	_, err = user.Write("checksum", []byte{0xde, 0xad})
	require.NoError(t, err)

	require.NoError(t, fs.Copy(ctx, src, dst, data.CopyAttributes))

	// Every configured view field reads back equal on the copy.
	srcAttrs, err := fs.ReadAttributes(ctx, src, "dos:readonly,hidden,system,archive")
	require.NoError(t, err)
	dstAttrs, err := fs.ReadAttributes(ctx, dst, "dos:readonly,hidden,system,archive")
	require.NoError(t, err)
	assert.Equal(t, srcAttrs, dstAttrs)

	srcPosix, err := fs.ReadAttributes(ctx, src, "posix:owner,group,permissions")
	require.NoError(t, err)
	dstPosix, err := fs.ReadAttributes(ctx, dst, "posix:permissions,owner,group")
	require.NoError(t, err)
	assert.Equal(t, srcPosix, dstPosix)

	dstUser, err := fs.GetUserView(ctx, dst)
	require.NoError(t, err)
	buf := make([]byte, 2)
	_, err = dstUser.Read("checksum", buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, buf)

	srcInfo, err := fs.Stat(ctx, src, false)
	require.NoError(t, err)
	dstInfo, err := fs.Stat(ctx, dst, false)
	require.NoError(t, err)
	assert.Equal(t, srcInfo.Modified, dstInfo.Modified)
	assert.Equal(t, srcInfo.Created, dstInfo.Created)
}

func TestSuite_UnicodeInsensitive(t *testing.T) {
	cfg := memfs.NewPosixConfig()
	cfg.CaseSensitivity = memfs.CaseInsensitiveUnicode
	fs := newSuiteFS(t, cfg)
	ctx := t.Context()

	p, err := fs.Path("/Straße")
	require.NoError(t, err)
	require.NoError(t, fs.CreateDirectory(ctx, p))

	// Full Unicode folding maps 'ß' and 'SS' together.
	upper, err := fs.Path("/STRASSE")
	require.NoError(t, err)
	assert.True(t, fs.IsDirectory(ctx, upper))
	assert.True(t, p.Equal(upper))
}

func TestSuite_MoveDirectoryTree(t *testing.T) {
	fs := newSuiteFS(t, memfs.NewPosixConfig())
	ctx := t.Context()

	mk := func(s string) *memfs.Path {
		p, err := fs.Path(s)
		require.NoError(t, err)
		return p
	}

	require.NoError(t, fs.CreateDirectories(ctx, mk("/a/b")))
	require.NoError(t, fs.WriteFile(ctx, mk("/a/b/f"), []byte("deep")))

	require.NoError(t, fs.Move(ctx, mk("/a"), mk("/z"), 0))

	assert.False(t, fs.Exists(ctx, mk("/a")))
	content, err := fs.ReadFile(ctx, mk("/z/b/f"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(content))

	// The moved subtree reports its new real path.
	real, err := fs.ToRealPath(ctx, mk("/z/b/f"))
	require.NoError(t, err)
	assert.Equal(t, "/z/b/f", real.String())
}

func TestSuite_DeleteIsAtomic(t *testing.T) {
	fs := newSuiteFS(t, memfs.NewPosixConfig())
	ctx := t.Context()

	p, err := fs.Path("/f")
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(ctx, p, []byte("x")))

	// A failed delete of a non-empty directory leaves everything
	// in place.
	d, err := fs.Path("/d")
	require.NoError(t, err)
	require.NoError(t, fs.CreateDirectory(ctx, d))
	child, err := fs.Path("/d/c")
	require.NoError(t, err)
	require.NoError(t, fs.CreateFile(ctx, child))

	err = fs.Delete(ctx, d)
	require.ErrorIs(t, err, data.ErrNotEmpty)
	assert.True(t, fs.Exists(ctx, d))
	assert.True(t, fs.Exists(ctx, child))
}
