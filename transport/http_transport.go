package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/retry"
	"github.com/xxxsen/davfs/cacheapi"
	"github.com/xxxsen/davfs/webdav"
	"go.uber.org/zap"
)

var (
	defaultHttpClient = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			IdleConnTimeout:     20 * time.Second,
			MaxIdleConns:        5,
			MaxIdleConnsPerHost: 1,
		},
	}
)

const (
	maxRedirects = 10
)

type httpTransport struct {
	c      *config
	client *http.Client
}

func New(opts ...Option) (ITransport, error) {
	c := &config{
		Client:        defaultHttpClient,
		RetryTimes:    1,
		RetryInterval: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Client == nil {
		return nil, fmt.Errorf("no http client found")
	}
	if c.RetryTimes < 1 {
		return nil, fmt.Errorf("invalid retry times:%d", c.RetryTimes)
	}
	// redirects are followed by doOnce, which keeps the method and body
	client := *c.Client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &httpTransport{c: c, client: &client}, nil
}

func (t *httpTransport) applyAuth(req *http.Request) {
	if len(t.c.AccessKey) == 0 {
		return
	}
	req.SetBasicAuth(t.c.AccessKey, t.c.SecretKey)
}

func (t *httpTransport) isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, webdav.MethodPropfind:
		return true
	}
	return false
}

func (t *httpTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	var rsp *Response
	call := func(ctx context.Context) error {
		r, err := t.doOnce(ctx, req)
		if err != nil {
			logutil.GetLogger(ctx).Debug("dav request failed", zap.String("method", req.Method), zap.String("url", req.URL), zap.Error(err))
			return err
		}
		rsp = r
		return nil
	}
	var err error
	if t.isIdempotent(req.Method) && t.c.RetryTimes > 1 {
		err = retry.RetryDo(ctx, uint32(t.c.RetryTimes-1), t.c.RetryInterval, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		logutil.GetLogger(ctx).Error("dav request failed", zap.String("method", req.Method), zap.String("url", req.URL),
			zap.Duration("cost", time.Since(start)), zap.Error(err))
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("dav request finish", zap.String("method", req.Method), zap.String("url", req.URL),
		zap.Int("status", rsp.StatusCode), zap.Int("body_size", len(rsp.Body)), zap.Duration("cost", time.Since(start)))
	return rsp, nil
}

func (t *httpTransport) buildRequest(ctx context.Context, req *Request, withAuth bool) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	if withAuth {
		t.applyAuth(hreq)
	}
	return hreq, nil
}

func (t *httpTransport) doOnce(ctx context.Context, req *Request) (*Response, error) {
	origin, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url failed, err:%w", err)
	}
	cached := t.lookupCache(ctx, req)
	cur := req
	for hop := 0; ; hop++ {
		hreq, err := t.buildRequest(ctx, cur, sameHost(origin, cur.URL))
		if err != nil {
			return nil, err
		}
		if cached != nil {
			hreq.Header.Set("If-None-Match", cached.ETag)
		}
		hrsp, err := t.client.Do(hreq)
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(hrsp.Body)
		_ = hrsp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body failed, err:%w", err)
		}
		if loc, ok := redirectLocation(hrsp); ok {
			if hop >= maxRedirects {
				return nil, fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			logutil.GetLogger(ctx).Debug("follow redirect", zap.String("method", cur.Method), zap.String("from", cur.URL),
				zap.String("to", loc.String()), zap.Int("status", hrsp.StatusCode))
			cur = redirectRequest(cur, hrsp.StatusCode, loc.String())
			continue
		}
		rsp := &Response{
			StatusCode: hrsp.StatusCode,
			Status:     reasonPhrase(hrsp),
			URL:        cur.URL,
			Header:     hrsp.Header,
			Body:       raw,
		}
		return t.updateCache(ctx, req, cached, rsp), nil
	}
}

func redirectLocation(rsp *http.Response) (*url.URL, bool) {
	switch rsp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		return nil, false
	}
	loc, err := rsp.Location()
	if err != nil {
		return nil, false
	}
	return loc, true
}

// redirectRequest keeps method, headers and body like a browser does for
// WebDAV methods. Only 303 turns into a bodyless GET.
func redirectRequest(req *Request, code int, loc string) *Request {
	next := &Request{
		Method: req.Method,
		URL:    loc,
		Header: req.Header,
		Body:   req.Body,
	}
	if code == http.StatusSeeOther && req.Method != http.MethodHead {
		next.Method = http.MethodGet
		next.Body = nil
		next.Header = req.Header.Clone()
		if next.Header != nil {
			next.Header.Del("Content-Type")
		}
	}
	return next
}

func sameHost(origin *url.URL, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, origin.Scheme) && strings.EqualFold(u.Host, origin.Host)
}

func reasonPhrase(rsp *http.Response) string {
	code := strconv.Itoa(rsp.StatusCode)
	s := strings.TrimSpace(strings.TrimPrefix(rsp.Status, code))
	if len(s) == 0 {
		return http.StatusText(rsp.StatusCode)
	}
	return s
}

func (t *httpTransport) lookupCache(ctx context.Context, req *Request) *CachedContent {
	if t.c.ContentCache == nil || req.Method != http.MethodGet || len(req.Header.Get("If-None-Match")) > 0 {
		return nil
	}
	cached, ok, err := cacheapi.GetOrMiss[uint64, *CachedContent](ctx, t.c.ContentCache, contentKey(req.URL))
	if err != nil {
		logutil.GetLogger(ctx).Error("read content cache failed", zap.String("url", req.URL), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return cached
}

func (t *httpTransport) updateCache(ctx context.Context, req *Request, cached *CachedContent, rsp *Response) *Response {
	if t.c.ContentCache == nil {
		return rsp
	}
	key := contentKey(req.URL)
	if req.Method != http.MethodGet {
		if req.Method == http.MethodPut || req.Method == http.MethodDelete {
			_ = t.c.ContentCache.Del(ctx, key)
		}
		return rsp
	}
	if rsp.StatusCode == http.StatusNotModified && cached != nil {
		logutil.GetLogger(ctx).Debug("content not modified, use cache", zap.String("url", req.URL), zap.String("etag", cached.ETag))
		body := make([]byte, len(cached.Body))
		copy(body, cached.Body)
		return &Response{
			StatusCode: http.StatusOK,
			Status:     http.StatusText(http.StatusOK),
			URL:        rsp.URL,
			Header:     cached.Header.Clone(),
			Body:       body,
		}
	}
	etag := rsp.Header.Get("ETag")
	if rsp.StatusCode != http.StatusOK || len(etag) == 0 {
		_ = t.c.ContentCache.Del(ctx, key)
		return rsp
	}
	body := make([]byte, len(rsp.Body))
	copy(body, rsp.Body)
	_ = t.c.ContentCache.Set(ctx, key, &CachedContent{
		ETag:   etag,
		Header: rsp.Header.Clone(),
		Body:   body,
	})
	return rsp
}
