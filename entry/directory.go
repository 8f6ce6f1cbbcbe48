package entry

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/fserr"
	"github.com/xxxsen/davfs/webdav"
	"go.uber.org/zap"
)

type DirectoryEntry struct {
	entryBase
}

func newDirectoryEntry(fs *FileSystem, fullPath string, md *Metadata) *DirectoryEntry {
	return &DirectoryEntry{entryBase: newEntryBase(fs, fullPath, md)}
}

func (d *DirectoryEntry) IsFile() bool {
	return false
}

func (d *DirectoryEntry) IsDirectory() bool {
	return true
}

func (d *DirectoryEntry) CreateReader() *DirectoryReader {
	return newDirectoryReader(d)
}

// GetFile looks up path relative to the directory. With flags.Create a missing
// file yields a placeholder entry without metadata; nothing is written until
// a Writer is used.
func (d *DirectoryEntry) GetFile(ctx context.Context, path string, flags *Flags) (*FileEntry, error) {
	u, err := resolveFileURL(d.fullPath, path)
	if err != nil {
		return nil, err
	}
	rsp, res, err := d.fs.lookup(ctx, u, fserr.ExpectFile, flags)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return newFileEntry(d.fs, rsp.URL, nil), nil
	}
	return newFileEntry(d.fs, rsp.URL, &res.Metadata), nil
}

// GetDirectory looks up path relative to the directory, creating it with
// MKCOL when missing and flags.Create is set.
func (d *DirectoryEntry) GetDirectory(ctx context.Context, path string, flags *Flags) (*DirectoryEntry, error) {
	u, err := resolveDirectoryURL(d.fullPath, path)
	if err != nil {
		return nil, err
	}
	rsp, res, err := d.fs.lookup(ctx, u, fserr.ExpectDirectory, flags)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return newDirectoryEntry(d.fs, ensureDirPath(rsp.URL), &res.Metadata), nil
	}
	mrsp, err := d.fs.do(ctx, webdav.MethodMkcol, u, nil, nil)
	if err != nil {
		logutil.GetLogger(ctx).Error("create directory failed", zap.String("url", u), zap.Error(err))
		return nil, fserr.MapTransport(u, err)
	}
	if err := fserr.Map(&fserr.StatusInfo{
		Op:         fserr.OpCreateCollection,
		URL:        u,
		StatusCode: mrsp.StatusCode,
		Status:     mrsp.Status,
	}); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("directory created", zap.String("url", mrsp.URL))
	return newDirectoryEntry(d.fs, ensureDirPath(mrsp.URL), nil), nil
}

// Remove deletes the directory only when it has no children.
func (d *DirectoryEntry) Remove(ctx context.Context) error {
	if d.isRoot() {
		return fserr.New(fserr.KindNotSupported, "root can not be removed")
	}
	ents, err := d.CreateReader().ReadEntries(ctx)
	if err != nil {
		return err
	}
	if len(ents) > 0 {
		return fserr.New(fserr.KindInvalidModification, "<%s> is not empty, %d entries left", d.fullPath, len(ents))
	}
	return d.delete(ctx)
}

func (d *DirectoryEntry) RemoveRecursively(ctx context.Context) error {
	if d.isRoot() {
		return fserr.New(fserr.KindNotSupported, "root can not be removed")
	}
	if !d.fs.c.clientSideRecursiveRemove {
		return d.delete(ctx)
	}
	return d.removeTree(ctx)
}

func (d *DirectoryEntry) removeTree(ctx context.Context) error {
	ents, err := d.CreateReader().ReadEntries(ctx)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		switch v := ent.(type) {
		case *DirectoryEntry:
			err = v.removeTree(ctx)
		case *FileEntry:
			err = v.delete(ctx)
		}
		if err != nil {
			return err
		}
	}
	return d.delete(ctx)
}
