package entry

import (
	"net/url"
	"strings"

	"github.com/xxxsen/davfs/fserr"
)

func resolveURL(base string, p string) (*url.URL, error) {
	ref, err := url.Parse(p)
	if err != nil {
		return nil, fserr.Wrap(fserr.KindTypeMismatch, err, "invalid path <%s>", p)
	}
	if len(base) == 0 {
		return ref, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, fserr.Wrap(fserr.KindTypeMismatch, err, "invalid base <%s>", base)
	}
	return b.ResolveReference(ref), nil
}

func checkURL(u *url.URL, p string) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fserr.New(fserr.KindTypeMismatch, "<%s> does not use the http or https scheme", u.String())
	}
	if len(u.Host) == 0 {
		return fserr.New(fserr.KindTypeMismatch, "<%s> has no host", u.String())
	}
	if len(u.RawQuery) > 0 || u.ForceQuery || len(u.Fragment) > 0 || strings.Contains(p, "#") {
		return fserr.New(fserr.KindTypeMismatch, "<%s> must have neither a query nor a fragment", u.String())
	}
	return nil
}

// resolveFileURL resolves p against base and requires a URL that can name a
// file: http(s), no query or fragment, path not ending with "/".
func resolveFileURL(base string, p string) (string, error) {
	u, err := resolveURL(base, p)
	if err != nil {
		return "", err
	}
	if err := checkURL(u, p); err != nil {
		return "", err
	}
	if len(u.Path) == 0 || strings.HasSuffix(u.Path, "/") {
		return "", fserr.New(fserr.KindTypeMismatch, "<%s> ends with \"/\", not a file", u.String())
	}
	return u.String(), nil
}

func resolveDirectoryURL(base string, p string) (string, error) {
	if len(p) > 0 && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	u, err := resolveURL(base, p)
	if err != nil {
		return "", err
	}
	if err := checkURL(u, p); err != nil {
		return "", err
	}
	if len(u.Path) == 0 {
		u.Path = "/"
	}
	return u.String(), nil
}

func parentURL(fullPath string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(fullPath, "/"))
	if err != nil {
		return "", fserr.Wrap(fserr.KindTypeMismatch, err, "invalid entry path <%s>", fullPath)
	}
	return u.ResolveReference(&url.URL{Path: "."}).String(), nil
}

func ensureDirPath(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// entryName is the last path segment, percent-decoded.
func entryName(fullPath string) string {
	p := strings.TrimSuffix(fullPath, "/")
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		p = p[idx+1:]
	}
	if v, err := url.PathUnescape(p); err == nil {
		return v
	}
	return p
}
