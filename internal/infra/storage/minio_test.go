package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 accepts bucket HEAD checks and object PUTs.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		f.mu.Unlock()
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestPutReport(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	host := strings.TrimPrefix(srv.URL, "http://")

	store, err := New(context.Background(), host, "us-east-1", "reports", "ak", "sk", false)
	require.NoError(t, err)

	key := "reports/acme/a1.json"
	url, err := store.PutReport(context.Background(), key, []byte(`{"response":"ok"}`))

	require.NoError(t, err)
	assert.Equal(t, "http://"+host+"/reports/reports/acme/a1.json", url)
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, string(fake.objects["/reports/reports/acme/a1.json"]), `{"response":"ok"}`)
	assert.Equal(t, "application/json", fake.types["/reports/reports/acme/a1.json"])
}
