package entry

import (
	"context"
	"net/http"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/fserr"
	"go.uber.org/zap"
)

type WriteEventType string

const (
	WriteEventComplete WriteEventType = "write"
	WriteEventError    WriteEventType = "error"
)

type WriteEvent struct {
	Type   WriteEventType
	Writer *Writer
}

// Writer replaces the whole content of a file with each Write.
type Writer struct {
	file *FileEntry

	mu         sync.Mutex
	lastErr    error
	onComplete Handler[*WriteEvent]
	onError    Handler[*WriteEvent]
}

func newWriter(file *FileEntry) *Writer {
	return &Writer{file: file}
}

func (w *Writer) SetOnWriteComplete(h Handler[*WriteEvent]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onComplete = h
}

func (w *Writer) SetOnWriteError(h Handler[*WriteEvent]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = h
}

// Error returns the failure of the most recent Write, nil after a success.
func (w *Writer) Error() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Writer) Write(ctx context.Context, data []byte) error {
	err := w.put(ctx, data)
	w.mu.Lock()
	w.lastErr = err
	h, typ := w.onComplete, WriteEventComplete
	if err != nil {
		h, typ = w.onError, WriteEventError
	}
	w.mu.Unlock()
	notify(h, &WriteEvent{Type: typ, Writer: w})
	return err
}

func (w *Writer) WriteAsync(ctx context.Context, data []byte) {
	go func() {
		_ = w.Write(ctx, data)
	}()
}

func (w *Writer) put(ctx context.Context, data []byte) error {
	u := w.file.fullPath
	header := http.Header{}
	header.Set("Content-Type", mimetype.Detect(data).String())
	rsp, err := w.file.fs.do(ctx, http.MethodPut, u, header, data)
	if err != nil {
		logutil.GetLogger(ctx).Error("write file failed", zap.String("url", u), zap.Error(err))
		return fserr.MapTransport(u, err)
	}
	if err := fserr.Map(&fserr.StatusInfo{
		Op:         fserr.OpWrite,
		URL:        u,
		StatusCode: rsp.StatusCode,
		Status:     rsp.Status,
	}); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Debug("file written", zap.String("url", u), zap.Int("size", len(data)))
	return nil
}
