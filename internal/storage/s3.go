package storage

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hashicorp/go-hclog"
)

// S3Uploader pushes report files to an S3 bucket.
type S3Uploader struct {
	bucket string
	region string
	logger hclog.Logger
}

func NewS3Uploader(bucket, region string, logger hclog.Logger) *S3Uploader {
	return &S3Uploader{bucket: bucket, region: region, logger: logger}
}

// Upload stores the file at path under key and returns the object location.
func (u *S3Uploader) Upload(path, key string) (string, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(u.region),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create AWS session: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open report file %q: %w", path, err)
	}
	defer f.Close()

	uploader := s3manager.NewUploader(sess)
	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3://%s/%s: %w", u.bucket, key, err)
	}

	u.logger.Info("report uploaded", "bucket", u.bucket, "key", key, "location", result.Location)
	return result.Location, nil
}
