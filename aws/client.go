// Package aws builds the S3 clients used by the content store
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type S3Client struct {
	C      *s3.Client
	Bucket *string
}

type Options struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	// Endpoint overrides the AWS endpoint, for S3 compatible services
	Endpoint string
}

// NewS3 connects to the bucket described by o and checks that it exists
func NewS3(ctx context.Context, o Options) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
		config.WithRegion(o.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config, %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
	})

	c := &S3Client{
		C:      client,
		Bucket: aws.String(o.Bucket),
	}

	if err := c.checkBucket(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *S3Client) checkBucket(ctx context.Context) error {
	_, err := c.C.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: c.Bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return fmt.Errorf("bucket '%s' does not exist", *c.Bucket)
			}
		}

		return fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return nil
}
