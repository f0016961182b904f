package backend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/ssoadmin/internal/app/system/backend"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestGet_ReturnsNonOKWithoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"nope"}`)
	}))
	defer srv.Close()

	c := backend.New(srv.URL, zap.NewNop())
	resp, err := c.Get(context.Background(), "/settings/sso/provider/")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if resp.OK() {
		t.Error("OK() = true for 404")
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
	if resp.StatusText() != "Not Found" {
		t.Errorf("StatusText() = %q, want %q", resp.StatusText(), "Not Found")
	}
}

func TestPutJSON_SendsJSONBody(t *testing.T) {
	var gotMethod, gotCT, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := backend.New(srv.URL+"/", zap.NewNop(), backend.WithToken("s3cret"))
	resp, err := c.PutJSON(context.Background(), "/settings/sso/", map[string]any{"is_enabled": true})
	if err != nil {
		t.Fatalf("PutJSON returned error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("OK() = false, status %d", resp.StatusCode)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotCT)
	}
	if gotAuth != "Bearer s3cret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer s3cret")
	}
	if gotBody != `{"is_enabled":true}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestURL_JoinsBaseAndPath(t *testing.T) {
	c := backend.New("http://backend:8000/api/", nil)
	tests := []struct {
		path string
		want string
	}{
		{"/settings/sso/", "http://backend:8000/api/settings/sso/"},
		{"settings/sso/object/", "http://backend:8000/api/settings/sso/object/"},
	}
	for _, tt := range tests {
		if got := c.URL(tt.path); got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeJSON_NotJSON(t *testing.T) {
	resp := &backend.Response{StatusCode: 500, Body: []byte("<html>boom</html>")}
	var v map[string]any
	err := resp.DecodeJSON(&v)
	if !errors.Is(err, backend.ErrNotJSON) {
		t.Fatalf("DecodeJSON error = %v, want ErrNotJSON", err)
	}
}

func TestGet_TransportErrorAndTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := backend.New(srv.URL, zap.NewNop(), backend.WithTimeout(20*time.Millisecond))
	if _, err := c.Get(context.Background(), "/slow"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestMetrics_RecordsCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad/" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := backend.NewMetrics(reg)
	c := backend.New(srv.URL, zap.NewNop(), backend.WithMetrics(m))

	ctx := context.Background()
	_, _ = c.Get(ctx, "/ok/")
	_, _ = c.Get(ctx, "/ok/")
	_, _ = c.Get(ctx, "/bad/")

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/ok/", "2xx")); got != 2 {
		t.Errorf("2xx count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/bad/", "4xx")); got != 1 {
		t.Errorf("4xx count = %v, want 1", got)
	}
}
