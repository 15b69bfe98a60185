package s3

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectPrefix = "plants/"

type Storage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (repository.ImageStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
		log.Infof("created image bucket %s", cfg.Bucket)
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		log:    log.Named("S3Storage"),
	}, nil
}

func (s *Storage) Upload(ctx context.Context, params repository.UploadImageParams) (string, error) {
	key := objectKey(params.FileName)

	info, err := s.client.PutObject(ctx, s.bucket, key, params.Body, params.Size, minio.PutObjectOptions{
		ContentType: params.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	s.log.Infof("uploaded %s (%d bytes)", info.Key, info.Size)

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key), nil
}

func objectKey(fileName string) string {
	return objectPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}
