// Package archive guarda en S3/MinIO los documentos enviados a LHDN.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
)

// Config conexión al almacenamiento.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string // vacío = us-east-1; fijarla evita consultar la ubicación del bucket
	UseSSL    bool
	URLExpiry time.Duration
}

// MinioArchive implementa appeinvoice.Archive sobre un bucket MinIO/S3.
type MinioArchive struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

var _ appeinvoice.Archive = (*MinioArchive)(nil)

// NewMinioArchive crea el cliente. No contacta al servidor; ver EnsureBucket.
func NewMinioArchive(cfg Config) (*MinioArchive, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: crear cliente minio: %w", err)
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &MinioArchive{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// EnsureBucket crea el bucket si no existe.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("archive: verificar bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("archive: crear bucket: %w", err)
		}
	}
	return nil
}

// Put sube el documento con su content type.
func (a *MinioArchive) Put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("archive: subir %s: %w", key, err)
	}
	return nil
}

// URL devuelve un enlace prefirmado de descarga.
func (a *MinioArchive) URL(ctx context.Context, key string) (string, error) {
	u, err := a.client.PresignedGetObject(ctx, a.bucket, key, a.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("archive: firmar URL de %s: %w", key, err)
	}
	return u.String(), nil
}
