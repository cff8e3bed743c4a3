package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sugurico/internal/config"
)

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("MinIO クライアントの初期化に失敗しました: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &MinIOClient{
		client:    client,
		bucket:    cfg.BucketName,
		region:    cfg.Region,
		publicURL: publicURL,
	}, nil
}

func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("バケットの確認に失敗しました: %w", err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("バケットの作成に失敗しました: %w", err)
	}

	policy, err := publicReadPolicy(m.bucket)
	if err != nil {
		return err
	}
	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("バケットポリシーの設定に失敗しました: %w", err)
	}
	return nil
}

func (m *MinIOClient) Upload(ctx context.Context, ownerID, fileName string, file io.Reader, size int64, contentType string) (string, string, error) {
	objectName := ObjectName(ownerID, fileName)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentTypeFor(fileName, contentType),
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"owner-id":          ownerID,
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("MinIO へのアップロードに失敗しました: %w", err)
	}

	return objectName, m.PublicURL(objectName), nil
}

func (m *MinIOClient) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, objectName)
}

func (m *MinIOClient) Remove(ctx context.Context, objectNames ...string) error {
	if len(objectNames) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(objectNames))
	for _, name := range objectNames {
		objectsCh <- minio.ObjectInfo{Key: name}
	}
	close(objectsCh)

	var firstErr error
	for rErr := range m.client.RemoveObjects(ctx, m.bucket, objectsCh, minio.RemoveObjectsOptions{GovernanceBypass: true}) {
		if firstErr == nil {
			firstErr = fmt.Errorf("MinIO からの削除に失敗しました (%s): %w", rErr.ObjectName, rErr.Err)
		}
	}
	return firstErr
}
