package entry

import (
	"context"
	"net/http"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/fserr"
	"go.uber.org/zap"
)

// Blob is the full content of a file as returned by the server.
type Blob struct {
	Data        []byte
	ContentType string
	Size        int64
}

type FileEntry struct {
	entryBase
}

func newFileEntry(fs *FileSystem, fullPath string, md *Metadata) *FileEntry {
	return &FileEntry{entryBase: newEntryBase(fs, fullPath, md)}
}

func (f *FileEntry) IsFile() bool {
	return true
}

func (f *FileEntry) IsDirectory() bool {
	return false
}

func (f *FileEntry) Remove(ctx context.Context) error {
	return f.delete(ctx)
}

func (f *FileEntry) CreateWriter() *Writer {
	return newWriter(f)
}

func (f *FileEntry) File(ctx context.Context) (*Blob, error) {
	rsp, err := f.fs.do(ctx, http.MethodGet, f.fullPath, nil, nil)
	if err != nil {
		logutil.GetLogger(ctx).Error("read file failed", zap.String("url", f.fullPath), zap.Error(err))
		return nil, fserr.MapTransport(f.fullPath, err)
	}
	if err := fserr.Map(&fserr.StatusInfo{
		Op:         fserr.OpRead,
		URL:        f.fullPath,
		StatusCode: rsp.StatusCode,
		Status:     rsp.Status,
	}); err != nil {
		return nil, err
	}
	return &Blob{
		Data:        rsp.Body,
		ContentType: rsp.Header.Get("Content-Type"),
		Size:        int64(len(rsp.Body)),
	}, nil
}
