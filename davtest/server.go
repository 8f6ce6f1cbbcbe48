package davtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

const recordedKey = "davtest.recorded"

func init() {
	gin.SetMode(gin.ReleaseMode)
}

var AllowMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodDelete,
	http.MethodHead,
	"PROPFIND",
	"MKCOL",
}

type Reply struct {
	Status int
	Header map[string]string
	Body   []byte
}

type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Server is a scripted WebDAV stub. Replies registered for a method and path
// are consumed in order, the last one keeps answering. Unscripted requests
// get 404. With WithUsers every request must carry matching basic auth.
type Server struct {
	mu       sync.Mutex
	replies  map[string][]*Reply
	requests []*RecordedRequest
	svr      *httptest.Server
}

func New(opts ...Option) *Server {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	s := &Server{
		replies: make(map[string][]*Reply),
	}
	engine := gin.New()
	if len(c.users) > 0 {
		engine.Use(s.record, mustAuthMiddleware(c.users))
	}
	for _, method := range AllowMethods {
		engine.Handle(method, "/*all", s.handler)
	}
	s.svr = httptest.NewServer(engine)
	return s
}

func (s *Server) URL() string {
	return s.svr.URL
}

func (s *Server) Close() {
	s.svr.Close()
}

func replyKey(method, path string) string {
	return method + " " + path
}

func (s *Server) On(method string, path string, replies ...*Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := replyKey(method, path)
	s.replies[key] = append(s.replies[key], replies...)
}

func (s *Server) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := make([]*RecordedRequest, len(s.requests))
	copy(rs, s.requests)
	return rs
}

func (s *Server) Count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cnt := 0
	for _, r := range s.requests {
		if r.Method == method {
			cnt++
		}
	}
	return cnt
}

func (s *Server) next(method, path string) *Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := replyKey(method, path)
	list := s.replies[key]
	if len(list) == 0 {
		return nil
	}
	rp := list[0]
	if len(list) > 1 {
		s.replies[key] = list[1:]
	}
	return rp
}

func (s *Server) record(c *gin.Context) {
	raw, _ := io.ReadAll(c.Request.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, &RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
		Body:   raw,
	})
	c.Set(recordedKey, true)
}

func (s *Server) handler(c *gin.Context) {
	if !c.GetBool(recordedKey) {
		s.record(c)
	}
	rp := s.next(c.Request.Method, c.Request.URL.Path)
	if rp == nil {
		c.Status(http.StatusNotFound)
		return
	}
	for k, v := range rp.Header {
		c.Header(k, v)
	}
	if len(rp.Body) == 0 {
		c.Status(rp.Status)
		return
	}
	c.Data(rp.Status, c.Writer.Header().Get("Content-Type"), rp.Body)
}
