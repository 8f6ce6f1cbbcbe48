package entry

import "context"

// The Async variants that reach the server run in a goroutine. Each call
// delivers exactly one notification and nil handlers are ignored.

func (e *entryBase) GetMetadataAsync(success Handler[*Metadata], failure ErrorHandler) {
	md, err := e.GetMetadata()
	settle(success, failure, md, err)
}

func (e *entryBase) GetParentAsync(ctx context.Context, success Handler[*DirectoryEntry], failure ErrorHandler) {
	go func() {
		v, err := e.GetParent(ctx)
		settle(success, failure, v, err)
	}()
}

func (d *DirectoryEntry) RemoveAsync(ctx context.Context, success VoidHandler, failure ErrorHandler) {
	go func() {
		settle(success, failure, struct{}{}, d.Remove(ctx))
	}()
}

func (d *DirectoryEntry) RemoveRecursivelyAsync(ctx context.Context, success VoidHandler, failure ErrorHandler) {
	go func() {
		settle(success, failure, struct{}{}, d.RemoveRecursively(ctx))
	}()
}

func (d *DirectoryEntry) GetFileAsync(ctx context.Context, path string, flags *Flags, success Handler[*FileEntry], failure ErrorHandler) {
	go func() {
		v, err := d.GetFile(ctx, path, flags)
		settle(success, failure, v, err)
	}()
}

func (d *DirectoryEntry) GetDirectoryAsync(ctx context.Context, path string, flags *Flags, success Handler[*DirectoryEntry], failure ErrorHandler) {
	go func() {
		v, err := d.GetDirectory(ctx, path, flags)
		settle(success, failure, v, err)
	}()
}

func (r *DirectoryReader) ReadEntriesAsync(ctx context.Context, success Handler[[]IEntry], failure ErrorHandler) {
	go func() {
		v, err := r.ReadEntries(ctx)
		settle(success, failure, v, err)
	}()
}

func (f *FileEntry) RemoveAsync(ctx context.Context, success VoidHandler, failure ErrorHandler) {
	go func() {
		settle(success, failure, struct{}{}, f.Remove(ctx))
	}()
}

func (f *FileEntry) FileAsync(ctx context.Context, success Handler[*Blob], failure ErrorHandler) {
	go func() {
		v, err := f.File(ctx)
		settle(success, failure, v, err)
	}()
}

func (f *FileEntry) CreateWriterAsync(success Handler[*Writer], failure ErrorHandler) {
	settle(success, failure, f.CreateWriter(), nil)
}
