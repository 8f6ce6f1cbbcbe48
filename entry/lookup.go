package entry

import (
	"context"
	"net/http"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/fserr"
	"github.com/xxxsen/davfs/transport"
	"github.com/xxxsen/davfs/webdav"
	"go.uber.org/zap"
)

// lookup issues a depth 0 PROPFIND and applies the lookup rules. A nil
// resource with a nil error means the target is missing and flags asked for
// create.
func (f *FileSystem) lookup(ctx context.Context, u string, expect fserr.Expect, flags *Flags) (*transport.Response, *webdav.Resource, error) {
	if flags == nil {
		flags = &Flags{}
	}
	rsp, err := f.propfind(ctx, u, webdav.DepthZero)
	if err != nil {
		logutil.GetLogger(ctx).Error("lookup entry failed", zap.String("url", u), zap.Error(err))
		return nil, nil, fserr.MapTransport(u, err)
	}
	var res *webdav.Resource
	if rsp.StatusCode == http.StatusMultiStatus {
		res, err = firstResource(rsp.Body)
		if err != nil {
			return nil, nil, fserr.Wrap(fserr.KindTypeMismatch, err, "bad lookup reply for <%s>", u)
		}
	}
	info := &fserr.StatusInfo{
		Op:         fserr.OpLookup,
		URL:        u,
		StatusCode: rsp.StatusCode,
		Status:     rsp.Status,
		Expect:     expect,
		Create:     flags.Create,
		Exclusive:  flags.Exclusive,
	}
	if res != nil {
		info.IsCollection = res.IsCollection
	}
	if err := fserr.Map(info); err != nil {
		logutil.GetLogger(ctx).Debug("lookup entry rejected", zap.String("url", u), zap.Int("code", rsp.StatusCode), zap.Error(err))
		return nil, nil, err
	}
	return rsp, res, nil
}

func firstResource(raw []byte) (*webdav.Resource, error) {
	ms, err := webdav.Decode(raw)
	if err != nil {
		return nil, err
	}
	if len(ms.Responses) == 0 {
		return nil, fserr.New(fserr.KindTypeMismatch, "multistatus without response")
	}
	return webdav.Extract(ms.Responses[0])
}
