package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/pkg/config"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "user-1/DEV-2026-0001.pdf", objectKey(&entity.Quote{ID: "q", OwnerID: "user-1", Number: "DEV-2026-0001"}))
	assert.Equal(t, "user-1/q-9.pdf", objectKey(&entity.Quote{ID: "q-9", OwnerID: "user-1"}))
	assert.Equal(t, "a_b/_.pdf", objectKey(&entity.Quote{OwnerID: "a/b", Number: ".."}))
}

func TestNewMinIOStore_RequiresConfig(t *testing.T) {
	_, err := NewMinIOStore(config.DocumentsConfig{Bucket: "quotes"})
	assert.Error(t, err)

	s, err := NewMinIOStore(config.DocumentsConfig{
		Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123", Bucket: "quotes",
	})
	require.NoError(t, err)
	assert.Equal(t, "quotes", s.bucket)
}
