package webdav

import "net/http"

const (
	MethodPropfind = "PROPFIND"
	MethodMkcol    = "MKCOL"

	HeaderDepth = "Depth"

	DepthZero = "0"
	DepthOne  = "1"

	PropfindContentType = "application/xml; charset=UTF-8"
)

var propfindBody = []byte(`<?xml version="1.0" encoding="UTF-8"?>
<propfind xmlns="DAV:">
	<prop>
		<resourcetype />
		<getlastmodified />
		<getcontentlength />
		<getetag />
	</prop>
</propfind>`)

// PropfindBody returns a fresh copy of the request body asking for the
// properties the extractor reads.
func PropfindBody() []byte {
	rs := make([]byte, len(propfindBody))
	copy(rs, propfindBody)
	return rs
}

func PropfindHeader(depth string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", PropfindContentType)
	h.Set(HeaderDepth, depth)
	return h
}
