package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the HEAD requests issued by BucketExists and StatObject.
func fakeS3(t *testing.T, bucket string, objects map[string]bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
		if parts[0] != bucket {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if len(parts) == 1 || parts[1] == "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if !objects[parts[1]] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", "4")
		w.Header().Set("Content-Type", "image/gif")
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Last-Modified", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestStore(t *testing.T, srv *httptest.Server, bucket string) *Store {
	t.Helper()
	s, err := New(context.Background(), Config{
		Endpoint:   strings.TrimPrefix(srv.URL, "http://"),
		AccessKey:  "minio",
		SecretKey:  "minio123",
		BucketName: bucket,
		Region:     "us-east-1",
	})
	require.NoError(t, err)
	return s
}

func TestResolveAsset(t *testing.T) {
	srv := fakeS3(t, "illustrations", map[string]bool{"uti.gif": true})
	s := newTestStore(t, srv, "illustrations")
	host := strings.TrimPrefix(srv.URL, "http://")

	url, err := s.ResolveAsset(context.Background(), "uti.gif")
	require.NoError(t, err)
	assert.Equal(t, "http://"+host+"/illustrations/uti.gif", url)

	url, err = s.ResolveAsset(context.Background(), "missing.gif")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestCheck(t *testing.T) {
	srv := fakeS3(t, "illustrations", nil)
	s := newTestStore(t, srv, "illustrations")

	assert.NoError(t, s.Check(context.Background()))

	s.bucketName = "other"
	assert.Error(t, s.Check(context.Background()))
}
