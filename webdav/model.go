package webdav

import "encoding/xml"

const (
	Namespace = "DAV:"
)

// Multistatus is the PROPFIND reply root. Elements match by namespace, the
// prefix the server picked does not matter.
type Multistatus struct {
	XMLName   xml.Name    `xml:"DAV: multistatus"`
	Responses []*Response `xml:"DAV: response"`
}

// Response describes a single resource.
type Response struct {
	Hrefs     []string    `xml:"DAV: href"`
	Propstats []*Propstat `xml:"DAV: propstat"`
	Status    string      `xml:"DAV: status"`
}

type Propstat struct {
	Prop   Prop   `xml:"DAV: prop"`
	Status string `xml:"DAV: status"`
}

// Prop uses pointers so a missing property differs from an empty one.
type Prop struct {
	ResourceType  *ResourceType `xml:"DAV: resourcetype"`
	LastModified  *string       `xml:"DAV: getlastmodified"`
	ContentLength *string       `xml:"DAV: getcontentlength"`
	ETag          *string       `xml:"DAV: getetag"`
	ContentType   *string       `xml:"DAV: getcontenttype"`
	DisplayName   *string       `xml:"DAV: displayname"`
}

type ResourceType struct {
	Collection *struct{} `xml:"DAV: collection"`
}

func (r *Response) Href() string {
	if len(r.Hrefs) == 0 {
		return ""
	}
	return r.Hrefs[0]
}
