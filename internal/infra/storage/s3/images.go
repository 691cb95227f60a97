package s3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"roomdesk/internal/app/policies"
)

const defaultRegion = "us-east-1"

type Options struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	// URLTTL > 0 presigns GET URLs; otherwise public object URLs are built.
	URLTTL time.Duration
}

// ImageResolver maps room image keys to URLs in an S3-compatible bucket.
// References that are already absolute URLs are returned unchanged.
type ImageResolver struct {
	bucket        string
	publicBaseURL string
	ttl           time.Duration
	client        *minio.Client
	logger        *slog.Logger
}

func NewImageResolver(opts Options, logger *slog.Logger) (*ImageResolver, error) {
	cleanEndpoint := strings.TrimSpace(opts.Endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = defaultRegion
	}

	// A fixed region keeps presigning local; minio otherwise asks the server.
	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(opts.PublicEndpoint)
	if base == "" {
		base = cleanEndpoint
	}
	return &ImageResolver{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		ttl:           opts.URLTTL,
		client:        minioClient,
		logger:        logger,
	}, nil
}

func (r *ImageResolver) ResolveImage(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) {
		return ref, nil
	}
	key := strings.Trim(ref, "/")
	if r.ttl <= 0 {
		return r.objectURL(key), nil
	}
	signed, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("s3: presign %s: %w", key, err)
	}
	return signed.String(), nil
}

// Ping checks that the bucket is reachable; used by readiness.
func (r *ImageResolver) Ping(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("s3: bucket %s does not exist", r.bucket)
	}
	return nil
}

func (r *ImageResolver) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicBaseURL, r.bucket, strings.TrimLeft(key, "/"))
}

func isAbsoluteURL(ref string) bool {
	parsed, err := url.Parse(ref)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.ImageResolver = (*ImageResolver)(nil)
