package entry

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/davfs/davtest"
	"github.com/xxxsen/davfs/fserr"
	"github.com/xxxsen/davfs/transport"
	"github.com/xxxsen/davfs/webdav"
)

var testMtime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, opts ...Option) (*davtest.Server, *DirectoryEntry) {
	srv := davtest.New()
	t.Cleanup(srv.Close)
	tr, err := transport.New()
	require.NoError(t, err)
	fs := NewFileSystem(tr, opts...)
	return srv, newDirectoryEntry(fs, srv.URL()+"/", nil)
}

type fakeTransport struct {
	fn func(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

func (f *fakeTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	return f.fn(ctx, req)
}

func TestGetFileExisting(t *testing.T) {
	srv, base := newTestEnv(t)
	srv.On(webdav.MethodPropfind, "/a.txt", davtest.MultistatusReply(davtest.FileResponse("/a.txt", 42, `"x"`, testMtime)))

	f, err := base.GetFile(context.Background(), "a.txt", nil)
	require.NoError(t, err)
	assert.True(t, f.IsFile())
	assert.False(t, f.IsDirectory())
	assert.Equal(t, "a.txt", f.Name())
	assert.Equal(t, srv.URL()+"/a.txt", f.FullPath())
	md, err := f.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, int64(42), md.Size)
	assert.Equal(t, `"x"`, md.ETag)
	assert.True(t, testMtime.Equal(md.ModificationTime))

	reqs := srv.Requests()
	require.Equal(t, 1, len(reqs))
	assert.Equal(t, webdav.DepthZero, reqs[0].Header.Get(webdav.HeaderDepth))
}

func TestGetFileCreatePlaceholder(t *testing.T) {
	srv, base := newTestEnv(t)
	f, err := base.GetFile(context.Background(), "new.txt", &Flags{Create: true})
	require.NoError(t, err)
	assert.Equal(t, srv.URL()+"/new.txt", f.FullPath())
	_, err = f.GetMetadata()
	assert.True(t, fserr.Is(err, fserr.KindNotSupported))
	assert.Equal(t, 0, srv.Count(http.MethodPut))
}

func TestGetFileErrors(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(webdav.MethodPropfind, "/a.txt", davtest.MultistatusReply(davtest.FileResponse("/a.txt", 1, `"e"`, testMtime)))
	srv.On(webdav.MethodPropfind, "/dir", davtest.MultistatusReply(davtest.DirResponse("/dir/", testMtime)))
	srv.On(webdav.MethodPropfind, "/boom.txt", davtest.StatusReply(http.StatusInternalServerError))

	_, err := base.GetFile(ctx, "a.txt", &Flags{Create: true, Exclusive: true})
	assert.True(t, fserr.Is(err, fserr.KindPathExists))

	_, err = base.GetFile(ctx, "dir", &Flags{Create: true, Exclusive: true})
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))

	_, err = base.GetFile(ctx, "missing.txt", nil)
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
	assert.False(t, fserr.IsNetwork(err))

	_, err = base.GetFile(ctx, "boom.txt", nil)
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
	assert.Contains(t, err.Error(), "500 Internal Server Error")

	cnt := len(srv.Requests())
	_, err = base.GetFile(ctx, "sub/", nil)
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))
	_, err = base.GetFile(ctx, "a.txt?v=1", nil)
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))
	assert.Equal(t, cnt, len(srv.Requests()))

	assert.Equal(t, 0, srv.Count(http.MethodPut))
	assert.Equal(t, 0, srv.Count(webdav.MethodMkcol))
}

func TestGetDirectory(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(webdav.MethodPropfind, "/docs/", davtest.MultistatusReply(davtest.DirResponse("/docs/", testMtime)))
	srv.On(webdav.MethodPropfind, "/a.txt/", davtest.MultistatusReply(davtest.FileResponse("/a.txt", 1, `"e"`, testMtime)))
	srv.On(webdav.MethodMkcol, "/new/", davtest.StatusReply(http.StatusCreated))
	srv.On(webdav.MethodMkcol, "/deny/", davtest.StatusReply(http.StatusConflict))

	d, err := base.GetDirectory(ctx, "docs", nil)
	require.NoError(t, err)
	assert.True(t, d.IsDirectory())
	assert.Equal(t, "docs", d.Name())
	assert.Equal(t, srv.URL()+"/docs/", d.FullPath())
	md, err := d.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, int64(0), md.Size)

	_, err = base.GetDirectory(ctx, "docs", &Flags{Create: true, Exclusive: true})
	assert.True(t, fserr.Is(err, fserr.KindPathExists))

	_, err = base.GetDirectory(ctx, "a.txt", nil)
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))

	nd, err := base.GetDirectory(ctx, "new", &Flags{Create: true})
	require.NoError(t, err)
	assert.Equal(t, srv.URL()+"/new/", nd.FullPath())
	_, err = nd.GetMetadata()
	assert.True(t, fserr.Is(err, fserr.KindNotSupported))

	_, err = base.GetDirectory(ctx, "deny", &Flags{Create: true})
	assert.True(t, fserr.Is(err, fserr.KindNoModificationAllowed))
	assert.Contains(t, err.Error(), "409 Conflict")

	_, err = base.GetDirectory(ctx, "missing", nil)
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
	assert.Equal(t, 2, srv.Count(webdav.MethodMkcol))
}

func TestGetParent(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(webdav.MethodPropfind, "/a/b.txt", davtest.MultistatusReply(davtest.FileResponse("/a/b.txt", 3, `"b"`, testMtime)))
	srv.On(webdav.MethodPropfind, "/a/", davtest.MultistatusReply(davtest.DirResponse("/a/", testMtime)))

	f, err := base.GetFile(ctx, "a/b.txt", nil)
	require.NoError(t, err)
	p, err := f.GetParent(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.URL()+"/a/", p.FullPath())
	assert.Equal(t, "a", p.Name())

	_, err = base.FileSystem().Root().GetParent(ctx)
	assert.True(t, fserr.Is(err, fserr.KindNotSupported))
}

func TestRootEntry(t *testing.T) {
	_, base := newTestEnv(t)
	ctx := context.Background()
	root := base.FileSystem().Root()
	assert.Equal(t, "", root.FullPath())
	assert.Equal(t, "", root.Name())
	assert.True(t, fserr.Is(root.Remove(ctx), fserr.KindNotSupported))
	assert.True(t, fserr.Is(root.RemoveRecursively(ctx), fserr.KindNotSupported))
	_, err := root.CreateReader().ReadEntries(ctx)
	assert.True(t, fserr.Is(err, fserr.KindNotSupported))
	_, err = root.GetFile(ctx, "a.txt", nil)
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))
}

func TestRemove(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	full := davtest.MultistatusReply(
		davtest.DirResponse("/full/", testMtime),
		davtest.FileResponse("/full/x.txt", 1, `"x"`, testMtime),
	)
	srv.On(webdav.MethodPropfind, "/full/", full)
	srv.On(webdav.MethodPropfind, "/empty/", davtest.MultistatusReply(davtest.DirResponse("/empty/", testMtime)))
	srv.On(http.MethodDelete, "/empty/", davtest.StatusReply(http.StatusNoContent))
	srv.On(http.MethodDelete, "/locked.txt", davtest.StatusReply(http.StatusLocked))

	d, err := base.GetDirectory(ctx, "full", nil)
	require.NoError(t, err)
	err = d.Remove(ctx)
	assert.True(t, fserr.Is(err, fserr.KindInvalidModification))
	assert.Equal(t, 0, srv.Count(http.MethodDelete))

	e, err := base.GetDirectory(ctx, "empty", nil)
	require.NoError(t, err)
	assert.NoError(t, e.Remove(ctx))
	assert.Equal(t, 1, srv.Count(http.MethodDelete))

	f := newFileEntry(base.FileSystem(), srv.URL()+"/locked.txt", nil)
	err = f.Remove(ctx)
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))
	assert.Contains(t, err.Error(), "423 Locked")

	g := newFileEntry(base.FileSystem(), srv.URL()+"/gone.txt", nil)
	assert.True(t, fserr.Is(g.Remove(ctx), fserr.KindNotFound))
}

func TestRemoveRecursively(t *testing.T) {
	ctx := context.Background()
	t.Run("server", func(t *testing.T) {
		srv, base := newTestEnv(t)
		srv.On(http.MethodDelete, "/tree/", davtest.StatusReply(http.StatusNoContent))
		d := newDirectoryEntry(base.FileSystem(), srv.URL()+"/tree/", nil)
		assert.NoError(t, d.RemoveRecursively(ctx))
		assert.Equal(t, 1, srv.Count(http.MethodDelete))
		assert.Equal(t, 0, srv.Count(webdav.MethodPropfind))
	})
	t.Run("client", func(t *testing.T) {
		srv, base := newTestEnv(t, WithClientSideRecursiveRemove(true))
		srv.On(webdav.MethodPropfind, "/tree/", davtest.MultistatusReply(
			davtest.DirResponse("/tree/", testMtime),
			davtest.DirResponse("/tree/sub/", testMtime),
			davtest.FileResponse("/tree/a.txt", 1, `"a"`, testMtime),
		))
		srv.On(webdav.MethodPropfind, "/tree/sub/", davtest.MultistatusReply(
			davtest.DirResponse("/tree/sub/", testMtime),
			davtest.FileResponse("/tree/sub/b.txt", 1, `"b"`, testMtime),
		))
		for _, p := range []string{"/tree/", "/tree/sub/", "/tree/a.txt", "/tree/sub/b.txt"} {
			srv.On(http.MethodDelete, p, davtest.StatusReply(http.StatusNoContent))
		}
		d := newDirectoryEntry(base.FileSystem(), srv.URL()+"/tree/", nil)
		require.NoError(t, d.RemoveRecursively(ctx))
		deleted := make([]string, 0, 4)
		for _, r := range srv.Requests() {
			if r.Method == http.MethodDelete {
				deleted = append(deleted, r.Path)
			}
		}
		assert.Equal(t, []string{"/tree/sub/b.txt", "/tree/sub/", "/tree/a.txt", "/tree/"}, deleted)
	})
}

func TestReaderDrain(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(webdav.MethodPropfind, "/d/", davtest.MultistatusReply(
		davtest.DirResponse("/d/", testMtime),
		davtest.FileResponse("/d/a%20b.txt", 7, `"ab"`, testMtime),
		davtest.DirResponse("/d/sub/", testMtime),
	))
	d := newDirectoryEntry(base.FileSystem(), srv.URL()+"/d/", nil)
	r := d.CreateReader()

	ents, err := r.ReadEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, len(ents))
	assert.True(t, ents[0].IsFile())
	assert.Equal(t, "a b.txt", ents[0].Name())
	assert.Equal(t, srv.URL()+"/d/a%20b.txt", ents[0].FullPath())
	md, err := ents[0].GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, int64(7), md.Size)
	assert.True(t, ents[1].IsDirectory())
	assert.Equal(t, srv.URL()+"/d/sub/", ents[1].FullPath())

	reqs := srv.Requests()
	assert.Equal(t, webdav.DepthOne, reqs[len(reqs)-1].Header.Get(webdav.HeaderDepth))

	ents, err = r.ReadEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, len(ents))
	assert.Equal(t, 1, srv.Count(webdav.MethodPropfind))
}

func TestReaderStickyError(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(webdav.MethodPropfind, "/d/", davtest.StatusReply(http.StatusForbidden))
	r := newDirectoryEntry(base.FileSystem(), srv.URL()+"/d/", nil).CreateReader()
	_, err := r.ReadEntries(ctx)
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))
	_, err2 := r.ReadEntries(ctx)
	assert.Equal(t, err, err2)
	assert.Equal(t, 1, srv.Count(webdav.MethodPropfind))
}

func TestReaderInvalidState(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	tr := &fakeTransport{fn: func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		close(entered)
		<-release
		return &transport.Response{StatusCode: http.StatusMultiStatus, URL: req.URL, Body: davtest.MultistatusReply(davtest.DirResponse("/d/", testMtime)).Body}, nil
	}}
	fs := NewFileSystem(tr)
	r := newDirectoryEntry(fs, "http://h/d/", nil).CreateReader()

	done := make(chan error, 1)
	r.ReadEntriesAsync(context.Background(), HandlerFunc[[]IEntry](func(v []IEntry) {
		done <- nil
	}), HandlerFunc[error](func(err error) {
		done <- err
	}))
	<-entered
	_, err := r.ReadEntries(context.Background())
	assert.True(t, fserr.Is(err, fserr.KindInvalidState))
	close(release)
	assert.NoError(t, <-done)
}

func TestNetworkError(t *testing.T) {
	tr := &fakeTransport{fn: func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		return nil, errors.New("connection refused")
	}}
	fs := NewFileSystem(tr)
	base := newDirectoryEntry(fs, "http://h/", nil)
	ctx := context.Background()

	_, err := base.GetFile(ctx, "a.txt", nil)
	assert.True(t, fserr.IsNetwork(err))
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
	assert.Contains(t, err.Error(), "http://h/a.txt")

	_, err = base.CreateReader().ReadEntries(ctx)
	assert.True(t, fserr.IsNetwork(err))

	err = newFileEntry(fs, "http://h/a.txt", nil).CreateWriter().Write(ctx, []byte("x"))
	assert.True(t, fserr.IsNetwork(err))
}

func TestFile(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(http.MethodGet, "/a.txt", &davtest.Reply{
		Status: http.StatusOK,
		Header: map[string]string{"Content-Type": "text/plain"},
		Body:   []byte("hello"),
	})
	blob, err := newFileEntry(base.FileSystem(), srv.URL()+"/a.txt", nil).File(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), blob.Data)
	assert.Equal(t, int64(5), blob.Size)
	assert.Equal(t, "text/plain", blob.ContentType)

	_, err = newFileEntry(base.FileSystem(), srv.URL()+"/gone.txt", nil).File(ctx)
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
}

func TestWriter(t *testing.T) {
	srv, base := newTestEnv(t)
	ctx := context.Background()
	srv.On(http.MethodPut, "/a.txt", davtest.StatusReply(http.StatusCreated), davtest.StatusReply(http.StatusForbidden))
	w := newFileEntry(base.FileSystem(), srv.URL()+"/a.txt", nil).CreateWriter()

	var mu sync.Mutex
	events := make([]WriteEventType, 0, 2)
	record := HandlerFunc[*WriteEvent](func(ev *WriteEvent) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, w, ev.Writer)
		events = append(events, ev.Type)
	})
	w.SetOnWriteComplete(record)
	w.SetOnWriteError(record)

	require.NoError(t, w.Write(ctx, []byte("hello world")))
	assert.NoError(t, w.Error())
	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, []byte("hello world"), last.Body)
	assert.Equal(t, "text/plain; charset=utf-8", last.Header.Get("Content-Type"))

	err := w.Write(ctx, []byte("again"))
	assert.True(t, fserr.Is(err, fserr.KindTypeMismatch))
	assert.Contains(t, err.Error(), "403 Forbidden")
	assert.Equal(t, err, w.Error())
	assert.Equal(t, []WriteEventType{WriteEventComplete, WriteEventError}, events)
}

func TestWriterNotFound(t *testing.T) {
	srv, base := newTestEnv(t)
	w := newFileEntry(base.FileSystem(), srv.URL()+"/nodir/a.txt", nil).CreateWriter()
	err := w.Write(context.Background(), []byte("x"))
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
}

func TestAsyncNotifyOnce(t *testing.T) {
	srv, base := newTestEnv(t)
	srv.On(webdav.MethodPropfind, "/a.txt", davtest.MultistatusReply(davtest.FileResponse("/a.txt", 2, `"a"`, testMtime)))
	ctx := context.Background()

	okCh := make(chan *FileEntry, 2)
	errCh := make(chan error, 2)
	success := HandlerFunc[*FileEntry](func(v *FileEntry) { okCh <- v })
	failure := HandlerFunc[error](func(err error) { errCh <- err })

	base.GetFileAsync(ctx, "a.txt", nil, success, failure)
	f := <-okCh
	assert.Equal(t, "a.txt", f.Name())

	base.GetFileAsync(ctx, "missing.txt", nil, success, failure)
	assert.True(t, fserr.Is(<-errCh, fserr.KindNotFound))
	assert.Equal(t, 0, len(okCh))
	assert.Equal(t, 0, len(errCh))

	// nil handlers are fine
	var nilFunc HandlerFunc[error]
	base.GetFileAsync(ctx, "missing.txt", nil, nil, nilFunc)

	mdCh := make(chan *Metadata, 1)
	f.GetMetadataAsync(HandlerFunc[*Metadata](func(md *Metadata) { mdCh <- md }), nil)
	assert.Equal(t, int64(2), (<-mdCh).Size)
}

func TestWalk(t *testing.T) {
	srv, base := newTestEnv(t)
	srv.On(webdav.MethodPropfind, "/w/", davtest.MultistatusReply(
		davtest.DirResponse("/w/", testMtime),
		davtest.DirResponse("/w/keep/", testMtime),
		davtest.DirResponse("/w/skip/", testMtime),
		davtest.FileResponse("/w/top.txt", 1, `"t"`, testMtime),
	))
	srv.On(webdav.MethodPropfind, "/w/keep/", davtest.MultistatusReply(
		davtest.DirResponse("/w/keep/", testMtime),
		davtest.FileResponse("/w/keep/in.txt", 1, `"i"`, testMtime),
	))
	d := newDirectoryEntry(base.FileSystem(), srv.URL()+"/w/", nil)
	seen := make([]string, 0, 4)
	err := Walk(context.Background(), d, func(ctx context.Context, ent IEntry) error {
		seen = append(seen, ent.Name())
		if ent.Name() == "skip" {
			return SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep", "in.txt", "skip", "top.txt"}, seen)

	stop := errors.New("stop")
	err = Walk(context.Background(), d, func(ctx context.Context, ent IEntry) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestBasicAuthCredentials(t *testing.T) {
	srv := davtest.New(davtest.WithUsers(map[string]string{"ak": "sk"}))
	t.Cleanup(srv.Close)
	srv.On(webdav.MethodPropfind, "/a.txt", davtest.MultistatusReply(davtest.FileResponse("/a.txt", 1, `"a"`, testMtime)))
	ctx := context.Background()

	anon, err := transport.New()
	require.NoError(t, err)
	base := newDirectoryEntry(NewFileSystem(anon), srv.URL()+"/", nil)
	_, err = base.GetFile(ctx, "a.txt", nil)
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
	assert.Contains(t, err.Error(), "401 Unauthorized")

	authed, err := transport.New(transport.WithAuth("ak", "sk"))
	require.NoError(t, err)
	base = newDirectoryEntry(NewFileSystem(authed), srv.URL()+"/", nil)
	f, err := base.GetFile(ctx, "a.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", f.Name())
}

func TestGetDirectoryFollowsRedirect(t *testing.T) {
	srv, base := newTestEnv(t)
	srv.On(webdav.MethodPropfind, "/old/", &davtest.Reply{
		Status: http.StatusMovedPermanently,
		Header: map[string]string{"Location": "/new/"},
	})
	srv.On(webdav.MethodPropfind, "/new/", davtest.MultistatusReply(davtest.DirResponse("/new/", testMtime)))

	d, err := base.FileSystem().Root().GetDirectory(context.Background(), srv.URL()+"/old/", nil)
	require.NoError(t, err)
	assert.Equal(t, srv.URL()+"/new/", d.FullPath())
	assert.Equal(t, "new", d.Name())
	assert.Equal(t, 2, srv.Count(webdav.MethodPropfind))
	assert.Equal(t, 0, srv.Count(http.MethodGet))
}
