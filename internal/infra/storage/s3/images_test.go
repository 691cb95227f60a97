package s3

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, ttl time.Duration) *ImageResolver {
	t.Helper()
	r, err := NewImageResolver(Options{
		Endpoint:       "http://localhost:9000",
		PublicEndpoint: "https://cdn.example.com/",
		AccessKey:      "minioadmin",
		SecretKey:      "minioadmin",
		Bucket:         "room-images",
		URLTTL:         ttl,
	}, nil)
	require.NoError(t, err)
	return r
}

func TestNewImageResolverValidates(t *testing.T) {
	_, err := NewImageResolver(Options{Bucket: "b"}, nil)
	assert.Error(t, err)
	_, err = NewImageResolver(Options{Endpoint: "localhost:9000"}, nil)
	assert.Error(t, err)
}

func TestResolveImagePublicURL(t *testing.T) {
	r := newResolver(t, 0)
	got, err := r.ResolveImage(context.Background(), "/rooms/standard.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/room-images/rooms/standard.jpg", got)
}

func TestResolveImagePassesAbsoluteURLs(t *testing.T) {
	r := newResolver(t, time.Minute)
	got, err := r.ResolveImage(context.Background(), "https://images.example.com/suite.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/suite.jpg", got)

	got, err = r.ResolveImage(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveImagePresigns(t *testing.T) {
	r := newResolver(t, 15*time.Minute)
	got, err := r.ResolveImage(context.Background(), "rooms/suite.jpg")
	require.NoError(t, err)

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", parsed.Host)
	assert.Equal(t, "/room-images/rooms/suite.jpg", parsed.Path)
	assert.Equal(t, "900", parsed.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, parsed.Query().Get("X-Amz-Signature"))
}
