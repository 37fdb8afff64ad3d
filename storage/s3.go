package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

const cacheControl = "max-age=3600"

type S3Storage struct {
	Storage
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) *S3Storage {
	return &S3Storage{
		Storage: Storage{
			Bucket: *bucket,
		},
		s3Client: bucket.CreateSVC(),
	}
}

// EnsureBucket creates the S3 bucket if it does not exist yet
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.s3Client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.Bucket.Name),
	})
	if err == nil {
		return nil
	}
	if aerr, ok := err.(awserr.Error); !ok || (aerr.Code() != "NotFound" && aerr.Code() != s3.ErrCodeNoSuchBucket) {
		return err
	}
	zap.L().Info("creating S3 bucket", zap.String("bucket", s.Bucket.Name))
	_, err = s.s3Client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.Bucket.Name),
	})
	return err
}

// Save uploads reader as a publicly readable object
func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	counter := &countingReader{Reader: reader}
	input := s3manager.UploadInput{
		Bucket:       aws.String(s.Bucket.Name),
		Key:          aws.String(s.Bucket.GetRemotePath(path)),
		Body:         counter,
		ACL:          aws.String(s3.ObjectCannedACLPublicRead),
		CacheControl: aws.String(cacheControl),
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(path)); mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.Bucket.SSEEncryption
	}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err := uploader.UploadWithContext(ctx, &input)
	return counter.n, err
}

func (s *S3Storage) Load(ctx context.Context, path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
