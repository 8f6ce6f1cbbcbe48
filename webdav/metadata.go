package webdav

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Metadata struct {
	ModificationTime time.Time
	Size             int64
	ETag             string
}

type Resource struct {
	Href         string
	IsCollection bool
	Metadata     Metadata
}

func Decode(raw []byte) (*Multistatus, error) {
	ms := &Multistatus{}
	if err := xml.NewDecoder(bytes.NewReader(raw)).Decode(ms); err != nil {
		return nil, fmt.Errorf("decode multistatus failed, err:%w", err)
	}
	return ms, nil
}

func statusCode(line string) int {
	if len(line) == 0 {
		return http.StatusOK
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// Extract reads the metadata of a single response element. Only properties
// reported inside a successful propstat are taken into account.
func Extract(r *Response) (*Resource, error) {
	res := &Resource{Href: strings.TrimSpace(r.Href())}
	var length string
	for _, ps := range r.Propstats {
		code := statusCode(ps.Status)
		if code < 200 || code >= 300 {
			continue
		}
		prop := ps.Prop
		if prop.ResourceType != nil && prop.ResourceType.Collection != nil {
			res.IsCollection = true
		}
		if prop.LastModified != nil {
			if v := strings.TrimSpace(*prop.LastModified); len(v) > 0 {
				t, err := http.ParseTime(v)
				if err != nil {
					return nil, fmt.Errorf("parse getlastmodified failed, val:%s, err:%w", v, err)
				}
				res.Metadata.ModificationTime = t
			}
		}
		if prop.ContentLength != nil {
			length = strings.TrimSpace(*prop.ContentLength)
		}
		if prop.ETag != nil {
			res.Metadata.ETag = strings.TrimSpace(*prop.ETag)
		}
	}
	if res.IsCollection || len(length) == 0 {
		return res, nil
	}
	size, err := strconv.ParseInt(length, 10, 64)
	if err != nil || size < 0 {
		return nil, fmt.Errorf("invalid getcontentlength:%s", length)
	}
	res.Metadata.Size = size
	return res, nil
}

// ExtractAll extracts every response of the document in document order.
func ExtractAll(ms *Multistatus) ([]*Resource, error) {
	rs := make([]*Resource, 0, len(ms.Responses))
	for idx, r := range ms.Responses {
		res, err := Extract(r)
		if err != nil {
			return nil, fmt.Errorf("extract response failed, idx:%d, err:%w", idx, err)
		}
		rs = append(rs, res)
	}
	return rs, nil
}
