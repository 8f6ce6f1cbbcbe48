package entry

import (
	"context"
	"net/http"

	"github.com/xxxsen/davfs/transport"
	"github.com/xxxsen/davfs/webdav"
)

type config struct {
	clientSideRecursiveRemove bool
}

type Option func(c *config)

// WithClientSideRecursiveRemove makes RemoveRecursively delete the tree entry
// by entry instead of relying on the server to cascade a collection DELETE.
func WithClientSideRecursiveRemove(v bool) Option {
	return func(c *config) {
		c.clientSideRecursiveRemove = v
	}
}

// FileSystem owns the transport and the root directory. Create it once at
// startup and reach every entry through Root.
type FileSystem struct {
	c    *config
	tr   transport.ITransport
	root *DirectoryEntry
}

func NewFileSystem(tr transport.ITransport, opts ...Option) *FileSystem {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	fs := &FileSystem{c: c, tr: tr}
	fs.root = newDirectoryEntry(fs, "", nil)
	return fs
}

// Root returns the unaddressable root directory, its FullPath is "".
func (f *FileSystem) Root() *DirectoryEntry {
	return f.root
}

func (f *FileSystem) do(ctx context.Context, method string, url string, header http.Header, body []byte) (*transport.Response, error) {
	return f.tr.Do(ctx, &transport.Request{
		Method: method,
		URL:    url,
		Header: header,
		Body:   body,
	})
}

func (f *FileSystem) propfind(ctx context.Context, url string, depth string) (*transport.Response, error) {
	return f.do(ctx, webdav.MethodPropfind, url, webdav.PropfindHeader(depth), webdav.PropfindBody())
}
