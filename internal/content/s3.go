package content

import (
	a "bitwise74/files-api/aws"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

const minMultipartSize = 12 << 20

// S3 keeps blobs in a bucket. Handles are object keys
type S3 struct {
	client   *a.S3Client
	uploader *manager.Uploader
}

var _ Store = (*S3)(nil)

func NewS3(c *a.S3Client) *S3 {
	return &S3{
		client: c,
		uploader: manager.NewUploader(c.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		}),
	}
}

func (s *S3) Create(ctx context.Context, data []byte) (string, error) {
	key := uuid.NewString()

	if err := s.Write(ctx, key, data); err != nil {
		return "", err
	}

	return key, nil
}

func (s *S3) Write(ctx context.Context, handle string, data []byte) error {
	in := &s3.PutObjectInput{
		Bucket:        s.client.Bucket,
		Key:           aws.String(handle),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}

	var err error
	if len(data) > minMultipartSize {
		_, err = s.uploader.Upload(ctx, in)
	} else {
		_, err = s.client.C.PutObject(ctx, in)
	}
	if err != nil {
		return fmt.Errorf("failed to upload %s, %w", handle, err)
	}

	return nil
}

func (s *S3) Read(ctx context.Context, handle string) ([]byte, error) {
	out, err := s.client.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.client.Bucket,
		Key:    aws.String(handle),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to download %s, %w", handle, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s, %w", handle, err)
	}

	return b, nil
}

func (s *S3) Remove(ctx context.Context, handle string) error {
	_, err := s.client.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.client.Bucket,
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s, %w", handle, err)
	}

	return nil
}
