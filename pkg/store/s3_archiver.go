package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/zerebrox/braincore/pkg/canonicalize"
	"github.com/zerebrox/braincore/pkg/ledger"
)

// S3Archiver uploads compacted ledger windows as canonical JSON, keyed by
// content hash. Compaction relocates events, it never alters them: the
// archived bytes hash to the key they are stored under.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3ArchiverConfig holds connection settings. Endpoint supports MinIO and
// LocalStack for local runs.
type S3ArchiverConfig struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

func NewS3Archiver(ctx context.Context, cfg S3ArchiverConfig) (*S3Archiver, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO/LocalStack
		}
	}

	return &S3Archiver{
		client: s3.NewFromConfig(awsCfg, clientOpts),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// ArchiveWindow uploads one compacted window and returns its content hash.
// Re-archiving an identical window is a no-op.
func (s *S3Archiver) ArchiveWindow(ctx context.Context, tenantID, monthKey string, window []*ledger.Envelope) (string, error) {
	if len(window) == 0 {
		return "", fmt.Errorf("archive requires a non-empty window")
	}

	data, err := canonicalize.JCS(window)
	if err != nil {
		return "", fmt.Errorf("window not canonicalizable: %w", err)
	}
	hash := canonicalize.HashBytes(data)
	key := s.windowKey(tenantID, monthKey, hash)

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return hash, nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}
	return hash, nil
}

// ArchiveCompacted splits a tenant's events into windows of the given size
// and uploads each one. Returns the window hashes in order.
func (s *S3Archiver) ArchiveCompacted(ctx context.Context, tenantID, monthKey string, events []*ledger.Envelope, windowSize int) ([]string, error) {
	windows, err := ledger.CompactByWindow(events, windowSize)
	if err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(windows))
	for _, w := range windows {
		h, err := s.ArchiveWindow(ctx, tenantID, monthKey, w)
		if err != nil {
			return hashes, err
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

// FetchWindow downloads one archived window by its content hash.
func (s *S3Archiver) FetchWindow(ctx context.Context, tenantID, monthKey, hash string) ([]*ledger.Envelope, error) {
	key := s.windowKey(tenantID, monthKey, hash)
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed for %s: %w", hash, err)
	}
	defer func() { _ = result.Body.Close() }()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, err
	}
	if got := canonicalize.HashBytes(buf.Bytes()); got != hash {
		return nil, fmt.Errorf("archived window %s corrupted: content hashes to %s", hash, got)
	}

	var window []*ledger.Envelope
	if err := json.Unmarshal(buf.Bytes(), &window); err != nil {
		return nil, err
	}
	return window, nil
}

func (s *S3Archiver) windowKey(tenantID, monthKey, hash string) string {
	raw := strings.TrimPrefix(hash, "sha256:")
	return fmt.Sprintf("%s%s/%s/%s.json", s.prefix, tenantID, monthKey, raw)
}
