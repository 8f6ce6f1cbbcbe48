package entry

import (
	"context"
	"net/http"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/fserr"
	"github.com/xxxsen/davfs/webdav"
	"go.uber.org/zap"
)

type Metadata = webdav.Metadata

// Flags controls how GetFile and GetDirectory treat a missing or existing
// target.
type Flags struct {
	Create    bool
	Exclusive bool
}

type IEntry interface {
	IsFile() bool
	IsDirectory() bool
	Name() string
	FullPath() string
	FileSystem() *FileSystem
	GetMetadata() (*Metadata, error)
	GetParent(ctx context.Context) (*DirectoryEntry, error)
	Remove(ctx context.Context) error

	GetMetadataAsync(success Handler[*Metadata], failure ErrorHandler)
	GetParentAsync(ctx context.Context, success Handler[*DirectoryEntry], failure ErrorHandler)
	RemoveAsync(ctx context.Context, success VoidHandler, failure ErrorHandler)
}

type entryBase struct {
	fs       *FileSystem
	fullPath string
	name     string
	md       *Metadata
}

func newEntryBase(fs *FileSystem, fullPath string, md *Metadata) entryBase {
	b := entryBase{fs: fs, fullPath: fullPath, name: entryName(fullPath)}
	if md != nil {
		cp := *md
		b.md = &cp
	}
	return b
}

func (e *entryBase) Name() string {
	return e.name
}

// FullPath is the absolute URL of the entry, directories end with "/".
func (e *entryBase) FullPath() string {
	return e.fullPath
}

func (e *entryBase) FileSystem() *FileSystem {
	return e.fs
}

func (e *entryBase) isRoot() bool {
	return len(e.fullPath) == 0
}

// GetMetadata returns the metadata captured when the entry was looked up or
// listed. Placeholders created by GetFile or GetDirectory have none.
func (e *entryBase) GetMetadata() (*Metadata, error) {
	if e.md == nil {
		return nil, fserr.New(fserr.KindNotSupported, "<%s> has no metadata", e.fullPath)
	}
	cp := *e.md
	return &cp, nil
}

func (e *entryBase) GetParent(ctx context.Context) (*DirectoryEntry, error) {
	if e.isRoot() {
		return nil, fserr.New(fserr.KindNotSupported, "root has no parent")
	}
	u, err := parentURL(e.fullPath)
	if err != nil {
		return nil, err
	}
	rsp, res, err := e.fs.lookup(ctx, u, fserr.ExpectDirectory, nil)
	if err != nil {
		return nil, err
	}
	return newDirectoryEntry(e.fs, ensureDirPath(rsp.URL), &res.Metadata), nil
}

func (e *entryBase) delete(ctx context.Context) error {
	if e.isRoot() {
		return fserr.New(fserr.KindNotSupported, "root can not be removed")
	}
	rsp, err := e.fs.do(ctx, http.MethodDelete, e.fullPath, nil, nil)
	if err != nil {
		logutil.GetLogger(ctx).Error("delete entry failed", zap.String("url", e.fullPath), zap.Error(err))
		return fserr.MapTransport(e.fullPath, err)
	}
	return fserr.Map(&fserr.StatusInfo{
		Op:         fserr.OpRemove,
		URL:        e.fullPath,
		StatusCode: rsp.StatusCode,
		Status:     rsp.Status,
	})
}
