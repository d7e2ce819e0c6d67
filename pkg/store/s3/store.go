package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	contentType = "application/json"
	// Short TTL so the dashboard picks up a fresh document within a minute.
	cacheControl = "public, max-age=60, must-revalidate"
)

type s3API interface {
	PutObject(
		ctx context.Context,
		params *awss3.PutObjectInput,
		optFns ...func(*awss3.Options),
	) (*awss3.PutObjectOutput, error)
}

// Store writes JSON documents to a single bucket. Each put is a full
// replacement of the key.
type Store struct {
	client s3API
	bucket string
}

func NewStore(cfg awssdk.Config, bucket string) *Store {
	return &Store{
		client: awss3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document %q: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to put %q to bucket %q: %w", key, s.bucket, err)
	}
	return nil
}
