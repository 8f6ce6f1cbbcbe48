package davtest

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"
)

// Multistatus 是 WebDAV 返回的根结构
type Multistatus struct {
	XMLName   xml.Name    `xml:"D:multistatus"`
	XMLNS     string      `xml:"xmlns:D,attr"`
	Responses []*Response `xml:"D:response"`
}

// Response 代表每个文件或目录的信息
type Response struct {
	Href     string   `xml:"D:href"`
	Propstat Propstat `xml:"D:propstat"`
}

// Propstat 包含资源的属性和状态
type Propstat struct {
	Prop   Prop   `xml:"D:prop"`
	Status string `xml:"D:status"`
}

// Prop 存储 WebDAV 资源的各种属性
type Prop struct {
	DisplayName   string       `xml:"D:displayname,omitempty"`
	LastModified  string       `xml:"D:getlastmodified"`
	ContentLength int64        `xml:"D:getcontentlength,omitempty"`
	ETag          string       `xml:"D:getetag,omitempty"`
	ResourceType  ResourceType `xml:"D:resourcetype"`
}

// ResourceType 用于区分文件和目录
type ResourceType struct {
	Collection *string `xml:"D:collection,omitempty"`
}

func displayName(href string) string {
	href = strings.TrimSuffix(href, "/")
	if idx := strings.LastIndex(href, "/"); idx >= 0 {
		return href[idx+1:]
	}
	return href
}

func FileResponse(href string, size int64, etag string, mtime time.Time) *Response {
	return &Response{
		Href: href,
		Propstat: Propstat{
			Prop: Prop{
				DisplayName:   displayName(href),
				LastModified:  mtime.UTC().Format(http.TimeFormat),
				ContentLength: size,
				ETag:          etag,
			},
			Status: "HTTP/1.1 200 OK",
		},
	}
}

func DirResponse(href string, mtime time.Time) *Response {
	if !strings.HasSuffix(href, "/") {
		href += "/"
	}
	collection := " " //不能空
	return &Response{
		Href: href,
		Propstat: Propstat{
			Prop: Prop{
				DisplayName:  displayName(href),
				LastModified: mtime.UTC().Format(http.TimeFormat),
				ResourceType: ResourceType{
					Collection: &collection,
				},
			},
			Status: "HTTP/1.1 200 OK",
		},
	}
}

// MultistatusReply 按顺序渲染多个 response, 返回 207
func MultistatusReply(rs ...*Response) *Reply {
	ms := &Multistatus{
		XMLNS:     "DAV:",
		Responses: rs,
	}
	raw, err := xml.Marshal(ms)
	if err != nil {
		panic(err)
	}
	return &Reply{
		Status: http.StatusMultiStatus,
		Header: map[string]string{"Content-Type": "application/xml; charset=utf-8"},
		Body:   append([]byte(xml.Header), raw...),
	}
}

func StatusReply(code int) *Reply {
	return &Reply{Status: code}
}
