package kbsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// ObjectStoreConfig locates the knowledge base document in an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	Region    string
}

// ObjectStoreSource fetches the YAML document from S3/R2.
type ObjectStoreSource struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectStoreSource constructs the source.
func NewObjectStoreSource(cfg ObjectStoreConfig, logger *slog.Logger) (*ObjectStoreSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://"),
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectStoreSource{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
		logger: logger.With("component", "kbsource.objectstore"),
	}, nil
}

// Load implements faq.Source.
func (s *ObjectStoreSource) Load(ctx context.Context) ([]faq.Record, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get knowledge base object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base object %s/%s: %w", s.bucket, s.key, err)
	}
	s.logger.Info("knowledge base object fetched", "bucket", s.bucket, "key", s.key, "bytes", len(data))
	return decodeDocument(data)
}

var _ faq.Source = (*ObjectStoreSource)(nil)

// sanitizeEndpoint strips scheme and path, which minio.New rejects.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
