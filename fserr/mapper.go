package fserr

import (
	"fmt"
	"net/http"
)

type Op int

const (
	OpLookup Op = iota
	OpCreateCollection
	OpRemove
	OpRead
	OpList
	OpWrite
)

type Expect int

const (
	ExpectAny Expect = iota
	ExpectFile
	ExpectDirectory
)

// StatusInfo describes one server answer together with what the operation
// asked for. IsCollection only matters for a 207 answer.
type StatusInfo struct {
	Op           Op
	URL          string
	StatusCode   int
	Status       string
	Expect       Expect
	IsCollection bool
	Create       bool
	Exclusive    bool
}

func (s *StatusInfo) statusLine() string {
	if len(s.Status) == 0 {
		return fmt.Sprintf("%d %s", s.StatusCode, http.StatusText(s.StatusCode))
	}
	return fmt.Sprintf("%d %s", s.StatusCode, s.Status)
}

func (s *StatusInfo) isDavOp() bool {
	return s.Op == OpLookup || s.Op == OpList
}

func (s *StatusInfo) succeeded() bool {
	if s.isDavOp() {
		return s.StatusCode == http.StatusMultiStatus
	}
	return s.StatusCode >= 200 && s.StatusCode < 300
}

// Map turns a server answer into nil (carry on) or an *Error. A nil return
// for a 404 lookup means the caller asked for create and should create.
func Map(s *StatusInfo) error {
	if s.succeeded() {
		if s.Op != OpLookup {
			return nil
		}
		switch {
		case s.Expect == ExpectDirectory && !s.IsCollection:
			return New(KindTypeMismatch, "<%s> is a file, not a directory", s.URL)
		case s.Expect == ExpectFile && s.IsCollection:
			return New(KindTypeMismatch, "<%s> is a directory, not a file", s.URL)
		case s.Create && s.Exclusive:
			return New(KindPathExists, "<%s> already exists", s.URL)
		}
		return nil
	}
	if s.StatusCode == http.StatusNotFound {
		if s.Op == OpLookup && s.Create {
			return nil
		}
		return New(KindNotFound, "%s", s.statusLine())
	}
	switch s.Op {
	case OpLookup:
		return New(KindNotFound, "%s", s.statusLine())
	case OpCreateCollection:
		return New(KindNoModificationAllowed, "%s", s.statusLine())
	default:
		return New(KindTypeMismatch, "%s", s.statusLine())
	}
}

// MapTransport covers the case where no response was obtained.
func MapTransport(url string, err error) error {
	return NewNetwork(url, err)
}
