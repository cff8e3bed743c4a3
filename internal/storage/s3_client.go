package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"sugurico/internal/config"
)

type S3Client struct {
	s3Client *s3.S3
	bucket   string
}

func NewS3Client(cfg config.S3) (*S3Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	// S3-compatible endpoints (MinIO, LocalStack) need path-style addressing.
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(!cfg.UseSSL)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("AWS セッションの作成に失敗しました: %w", err)
	}

	return &S3Client{
		s3Client: s3.New(sess),
		bucket:   cfg.BucketName,
	}, nil
}

func (c *S3Client) EnsureBucket(ctx context.Context) error {
	_, err := c.s3Client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil {
		return nil
	}

	if _, err := c.s3Client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("バケットの作成に失敗しました: %w", err)
	}

	policy, err := publicReadPolicy(c.bucket)
	if err != nil {
		return err
	}
	_, err = c.s3Client.PutBucketPolicyWithContext(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(c.bucket),
		Policy: aws.String(policy),
	})
	if err != nil {
		return fmt.Errorf("バケットポリシーの設定に失敗しました: %w", err)
	}
	return nil
}

func (c *S3Client) Upload(ctx context.Context, ownerID, fileName string, file io.Reader, size int64, contentType string) (string, string, error) {
	objectName := ObjectName(ownerID, fileName)

	body, ok := file.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", fmt.Errorf("ファイルの読み込みに失敗しました: %w", err)
		}
		body = bytes.NewReader(data)
	}

	_, err := c.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectName),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentTypeFor(fileName, contentType)),
		Metadata: map[string]*string{
			"Owner-Id":          aws.String(ownerID),
			"Original-Filename": aws.String(fileName),
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("S3 へのアップロードに失敗しました: %w", err)
	}

	return objectName, c.PublicURL(objectName), nil
}

func (c *S3Client) PublicURL(objectName string) string {
	endpoint := aws.StringValue(c.s3Client.Config.Endpoint)
	if endpoint != "" && !strings.Contains(endpoint, "amazonaws.com") {
		protocol := "https"
		if aws.BoolValue(c.s3Client.Config.DisableSSL) {
			protocol = "http"
		}
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, c.bucket, objectName)
	}

	region := aws.StringValue(c.s3Client.Config.Region)
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, region, objectName)
}

func (c *S3Client) Remove(ctx context.Context, objectNames ...string) error {
	if len(objectNames) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(objectNames))
	for _, name := range objectNames {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(name)})
	}

	out, err := c.s3Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("S3 からの削除に失敗しました: %w", err)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("S3 からの削除に失敗しました (%s): %s", aws.StringValue(out.Errors[0].Key), aws.StringValue(out.Errors[0].Message))
	}
	return nil
}
