// Package gcs fetches import documents from Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// Object is what the store reads from a bucket object.
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectReader reads whole objects.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, object string, limit int64) (*Object, error)
}

// Store implements usecase.DocumentStore.
type Store struct {
	reader   ObjectReader
	maxBytes int64
	logger   zerolog.Logger
}

var _ usecase.DocumentStore = (*Store)(nil)

// NewStore creates a Store. Objects larger than maxBytes are rejected; 0 disables the limit.
func NewStore(reader ObjectReader, maxBytes int64, logger zerolog.Logger) *Store {
	return &Store{reader: reader, maxBytes: maxBytes, logger: logger}
}

// Fetch downloads the document at uri.
func (s *Store) Fetch(ctx context.Context, uri string) (*usecase.Document, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	obj, err := s.reader.ReadObject(ctx, bucket, object, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrExternalService, uri, err)
	}
	if len(obj.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	name := path.Base(object)
	contentType := obj.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(path.Ext(name)); byExt != "" {
			contentType = byExt
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	s.logger.Debug().
		Str("bucket", bucket).
		Str("object", object).
		Int("bytes", len(obj.Data)).
		Msg("document fetched")

	return &usecase.Document{
		Name:     name,
		MIMEType: contentType,
		Data:     obj.Data,
	}, nil
}

// ParseURI splits gs://bucket/path/to/object. Anything else is domain.ErrInvalidURI.
func ParseURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "gs://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidURI, uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidURI, uri)
	}
	return bucket, object, nil
}

// ClientReader reads objects through a storage client.
type ClientReader struct {
	client *storage.Client
}

// NewClientReader creates a storage client. An empty credentialsFile uses
// application default credentials.
func NewClientReader(ctx context.Context, credentialsFile string) (*ClientReader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &ClientReader{client: client}, nil
}

// ReadObject implements ObjectReader.
func (c *ClientReader) ReadObject(ctx context.Context, bucket, object string, limit int64) (*Object, error) {
	r, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	if limit > 0 && r.Attrs.Size > limit {
		return nil, fmt.Errorf("object is %d bytes, limit is %d", r.Attrs.Size, limit)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return &Object{Data: data, ContentType: r.Attrs.ContentType}, nil
}

// Close releases the storage client.
func (c *ClientReader) Close() error {
	return c.client.Close()
}
