// Package storage guarda los PDF de cotización en un bucket S3 compatible (MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/pkg/config"
)

var _ crm.DocumentStore = (*MinIOStore)(nil)

const pdfContentType = "application/pdf"

// MinIOStore implementa crm.DocumentStore sobre minio-go.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore crea el cliente. Falla si el almacenamiento no está configurado.
func NewMinIOStore(cfg config.DocumentsConfig) (*MinIOStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("almacenamiento de documentos no configurado")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente MinIO: %w", err)
	}
	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket crea el bucket si no existe.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("comprobar bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("crear bucket %s: %w", s.bucket, err)
	}
	return nil
}

// SaveQuoteDocument sube el PDF y devuelve "bucket/clave". Un reenvío sobrescribe el documento anterior.
func (s *MinIOStore) SaveQuoteDocument(ctx context.Context, q *entity.Quote, pdf []byte) (string, error) {
	key := objectKey(q)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: pdfContentType,
		UserMetadata: map[string]string{
			"quote-id":   q.ID,
			"contact-id": q.ContactID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("subir documento %s: %w", key, err)
	}
	return path.Join(s.bucket, key), nil
}

// objectKey <owner>/<número>.pdf; el número es único por propietario.
func objectKey(q *entity.Quote) string {
	name := q.Number
	if name == "" {
		name = q.ID
	}
	return path.Join(sanitize(q.OwnerID), sanitize(name)+".pdf")
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}
