// Package testutil provides helpers shared by handler tests: a scripted
// settings backend and response assertions.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply is a canned backend answer.
type Reply struct {
	Status int
	Body   string
}

// Request is a call the fake backend received.
type Request struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

// Backend is an httptest server answering "METHOD /path" keys from a table.
// Unknown keys get a 404 with an empty JSON object.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []Request
}

// NewBackend starts a fake settings backend; it is closed when t ends.
func NewBackend(t *testing.T, replies map[string]Reply) *Backend {
	t.Helper()
	b := &Backend{replies: make(map[string]Reply, len(replies))}
	for k, v := range replies {
		b.replies[k] = v
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Set replaces the answer for key, e.g. "PUT /settings/sso/".
func (b *Backend) Set(key string, r Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[key] = r
}

// Requests returns the calls received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	})
	reply, ok := b.replies[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		reply = Reply{Status: http.StatusNotFound, Body: `{}`}
	}
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}
