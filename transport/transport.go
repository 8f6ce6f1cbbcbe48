package transport

import (
	"context"
	"net/http"
)

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully read server answer. URL is the final location after
// redirects and Status the reason phrase without the code.
type Response struct {
	StatusCode int
	Status     string
	URL        string
	Header     http.Header
	Body       []byte
}

// ITransport returns an error only when no response could be obtained, any
// status code (including 4xx/5xx) is reported through Response.
type ITransport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
