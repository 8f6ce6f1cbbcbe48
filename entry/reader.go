package entry

import (
	"context"
	"net/url"
	"sync"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/fserr"
	"github.com/xxxsen/davfs/webdav"
	"go.uber.org/zap"
)

// DirectoryReader lists a directory once. The first successful ReadEntries
// returns every child, later calls return an empty slice. A failure sticks
// and is returned by every later call.
type DirectoryReader struct {
	dir *DirectoryEntry

	mu      sync.Mutex
	reading bool
	done    bool
	err     error
}

func newDirectoryReader(dir *DirectoryEntry) *DirectoryReader {
	return &DirectoryReader{dir: dir}
}

func (r *DirectoryReader) ReadEntries(ctx context.Context) ([]IEntry, error) {
	r.mu.Lock()
	if r.reading {
		r.mu.Unlock()
		return nil, fserr.New(fserr.KindInvalidState, "The reader is during operation")
	}
	if r.err != nil {
		err := r.err
		r.mu.Unlock()
		return nil, err
	}
	if r.done {
		r.mu.Unlock()
		return []IEntry{}, nil
	}
	r.reading = true
	r.mu.Unlock()

	ents, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reading = false
	if err != nil {
		r.err = err
		return nil, err
	}
	r.done = true
	return ents, nil
}

func (r *DirectoryReader) fetch(ctx context.Context) ([]IEntry, error) {
	d := r.dir
	if d.isRoot() {
		return nil, fserr.New(fserr.KindNotSupported, "root can not be listed")
	}
	rsp, err := d.fs.propfind(ctx, d.fullPath, webdav.DepthOne)
	if err != nil {
		logutil.GetLogger(ctx).Error("list directory failed", zap.String("url", d.fullPath), zap.Error(err))
		return nil, fserr.MapTransport(d.fullPath, err)
	}
	if err := fserr.Map(&fserr.StatusInfo{
		Op:         fserr.OpList,
		URL:        d.fullPath,
		StatusCode: rsp.StatusCode,
		Status:     rsp.Status,
	}); err != nil {
		return nil, err
	}
	ms, err := webdav.Decode(rsp.Body)
	if err != nil {
		return nil, fserr.Wrap(fserr.KindTypeMismatch, err, "bad listing reply for <%s>", d.fullPath)
	}
	base, err := url.Parse(rsp.URL)
	if err != nil {
		return nil, fserr.Wrap(fserr.KindTypeMismatch, err, "invalid directory url <%s>", rsp.URL)
	}
	ents := make([]IEntry, 0, len(ms.Responses))
	// the first response is the directory itself
	for idx := 1; idx < len(ms.Responses); idx++ {
		res, err := webdav.Extract(ms.Responses[idx])
		if err != nil {
			return nil, fserr.Wrap(fserr.KindTypeMismatch, err, "bad listing entry, idx:%d", idx)
		}
		ref, err := url.Parse(res.Href)
		if err != nil {
			return nil, fserr.Wrap(fserr.KindTypeMismatch, err, "bad href <%s>", res.Href)
		}
		full := base.ResolveReference(ref).String()
		if res.IsCollection {
			ents = append(ents, newDirectoryEntry(d.fs, ensureDirPath(full), &res.Metadata))
			continue
		}
		ents = append(ents, newFileEntry(d.fs, full, &res.Metadata))
	}
	logutil.GetLogger(ctx).Debug("directory listed", zap.String("url", d.fullPath), zap.Int("count", len(ents)))
	return ents, nil
}
