// Package cloudflare provides a client for Cloudflare R2 storage
package cloudflare

import (
	a "bitwise74/files-api/aws"
	"context"
	"fmt"
)

type R2Options struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Endpoint is the S3 compatible endpoint of an R2 account
func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// NewR2 returns an S3 client talking to R2
func NewR2(ctx context.Context, o R2Options) (*a.S3Client, error) {
	return a.NewS3(ctx, a.Options{
		AccessKey: o.AccessKeyID,
		SecretKey: o.SecretAccessKey,
		Bucket:    o.Bucket,
		Region:    "auto",
		Endpoint:  Endpoint(o.AccountID),
	})
}
