package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sugurico/internal/config"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		pattern  string
	}{
		{"拡張子を小文字化", "Photo.PNG", `^user-1/[0-9a-f-]{36}\.png$`},
		{"拡張子なしは jpg", "photo", `^user-1/[0-9a-f-]{36}\.jpg$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.pattern), ObjectName("user-1", tt.fileName))
		})
	}

	assert.NotEqual(t, ObjectName("u", "a.png"), ObjectName("u", "a.png"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/webp", contentTypeFor("a.webp", "image/webp"))
	assert.Equal(t, "image/png", contentTypeFor("a.png", ""))
	assert.Equal(t, "application/octet-stream", contentTypeFor("a.unknownext", ""))
}

func TestMinIOClient_PublicURL(t *testing.T) {
	client, err := NewMinIOClient(config.MinIO{
		Endpoint:   "localhost:9000",
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		BucketName: "post-images",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/post-images/u/a.png", client.PublicURL("u/a.png"))

	client, err = NewMinIOClient(config.MinIO{
		Endpoint:   "minio:9000",
		BucketName: "post-images",
		PublicURL:  "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/post-images/u/a.png", client.PublicURL("u/a.png"))
}

func TestS3Client_PublicURL(t *testing.T) {
	aws, err := NewS3Client(config.S3{Region: "ap-northeast-1", BucketName: "post-images"})
	require.NoError(t, err)
	assert.Equal(t, "https://post-images.s3.ap-northeast-1.amazonaws.com/u/a.png", aws.PublicURL("u/a.png"))

	local, err := NewS3Client(config.S3{Region: "us-east-1", BucketName: "post-images", Endpoint: "http://localhost:4566"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566/post-images/u/a.png", local.PublicURL("u/a.png"))
}

func TestS3Client_RemoveNothing(t *testing.T) {
	client, err := NewS3Client(config.S3{Region: "us-east-1", BucketName: "post-images"})
	require.NoError(t, err)
	assert.NoError(t, client.Remove(context.Background()))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}

func TestPublicReadPolicy(t *testing.T) {
	policy, err := publicReadPolicy("post-images")
	require.NoError(t, err)

	var doc struct {
		Version   string
		Statement []struct {
			Effect    string
			Principal map[string][]string
			Action    []string
			Resource  []string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(policy), &doc))
	assert.Equal(t, "2012-10-17", doc.Version)
	require.Len(t, doc.Statement, 1)
	assert.Equal(t, "Allow", doc.Statement[0].Effect)
	assert.Equal(t, []string{"*"}, doc.Statement[0].Principal["AWS"])
	assert.Equal(t, []string{"s3:GetObject"}, doc.Statement[0].Action)
	assert.Equal(t, []string{"arn:aws:s3:::post-images/*"}, doc.Statement[0].Resource)
}

// fakeBucket answers the handful of S3 calls the storage drivers make against a missing bucket.
type fakeBucket struct {
	mu         sync.Mutex
	created    bool
	policy     string
	deletes    int
	deleteBody string
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	query := r.URL.Query()
	switch {
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && query.Has("policy"):
		f.policy = string(body)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPut:
		f.created = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && query.Has("delete"):
		f.deletes++
		f.deleteBody = string(body)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></DeleteResult>`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFakeMinIO(t *testing.T) (*MinIOClient, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewMinIOClient(config.MinIO{
		Endpoint:   strings.TrimPrefix(srv.URL, "http://"),
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		BucketName: "post-images",
		Region:     "us-east-1",
	})
	require.NoError(t, err)
	return client, fake
}

func TestMinIOClient_EnsureBucketSetsReadPolicy(t *testing.T) {
	client, fake := newFakeMinIO(t)

	require.NoError(t, client.EnsureBucket(context.Background()))

	want, err := publicReadPolicy("post-images")
	require.NoError(t, err)
	assert.True(t, fake.created)
	assert.JSONEq(t, want, fake.policy)
}

func TestMinIOClient_RemoveBatches(t *testing.T) {
	client, fake := newFakeMinIO(t)

	err := client.Remove(context.Background(), "u/a.png", "u/b.png", "u/c.png")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.deletes)
	for _, key := range []string{"u/a.png", "u/b.png", "u/c.png"} {
		assert.Contains(t, fake.deleteBody, "<Key>"+key+"</Key>")
	}
}

func TestMinIOClient_RemoveNothing(t *testing.T) {
	client, fake := newFakeMinIO(t)
	assert.NoError(t, client.Remove(context.Background()))
	assert.Zero(t, fake.deletes)
}

func TestS3Client_EnsureBucketSetsReadPolicy(t *testing.T) {
	fake := &fakeBucket{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := NewS3Client(config.S3{
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        srv.URL,
		BucketName:      "post-images",
	})
	require.NoError(t, err)

	require.NoError(t, client.EnsureBucket(context.Background()))

	want, err := publicReadPolicy("post-images")
	require.NoError(t, err)
	assert.True(t, fake.created)
	assert.JSONEq(t, want, fake.policy)
}
