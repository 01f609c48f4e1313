package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client stores résumés as objects in a single bucket.
type S3Client struct {
	client *s3.Client
	bucket string
	prefix string
	region string
}

// NewS3Storage loads the default AWS credential chain for region.
func NewS3Storage(ctx context.Context, bucket, region, prefix string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Client{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		region: region,
	}, nil
}

func (c *S3Client) Upload(ctx context.Context, b []byte, fileName, contentType string) (string, error) {
	key := path.Join(c.prefix, path.Base(fileName))
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(b),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(b))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send file %s to bucket %s: %w", key, c.bucket, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key), nil
}

func (c *S3Client) Delete(ctx context.Context, fileName string) error {
	key := path.Join(c.prefix, path.Base(fileName))
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", key, c.bucket, err)
	}
	return nil
}
