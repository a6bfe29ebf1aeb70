package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vision-inspector/internal/domain/port"
)

// MinioConfig параметры подключения к MinIO
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string // пусто: регион запрашивается у сервера
	UseSSL          bool
}

// MinioArchive хранит выгрузки отчётов в бакете MinIO
type MinioArchive struct {
	client *minio.Client
	bucket string
	logger *log.Logger
	now    func() time.Time
}

// NewMinioArchive подключается к MinIO и создаёт бакет, если его нет.
func NewMinioArchive(ctx context.Context, cfg MinioConfig, logger *log.Logger) (*MinioArchive, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("bucket created", "bucket", cfg.Bucket)
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket, logger: logger, now: time.Now}, nil
}

// Store загружает отчёт и возвращает ключ объекта
func (a *MinioArchive) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := ObjectKey(a.now(), name)

	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	a.logger.Debug("report stored", "bucket", a.bucket, "key", key, "size", info.Size)
	return key, nil
}

// ObjectKey раскладывает отчёты по датам: reports/yyyy/mm/dd/name
func ObjectKey(t time.Time, name string) string {
	return path.Join("reports", t.UTC().Format("2006/01/02"), path.Base(name))
}

var _ port.ReportArchive = (*MinioArchive)(nil)
