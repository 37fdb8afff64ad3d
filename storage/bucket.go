package storage

import (
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

type Bucket struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     int64
	UpdatedAt     int64
	Name          string `gorm:"type:varchar(200)"`
	StorageType   StorageType
	Path          string `gorm:"type:varchar(500)"`  // Path on a drive or a prefix in a S3 bucket
	PublicURL     string `gorm:"type:varchar(1000)"` // Base URL the stored objects are publicly readable under
	Endpoint      string `gorm:"type:varchar(300)"`  // Custom S3 endpoint (MinIO, etc)
	Region        string `gorm:"type:varchar(50)"`
	S3Key         string `gorm:"type:varchar(300)"`
	S3Secret      string `gorm:"type:varchar(300)"`
	SSEEncryption string `gorm:"type:varchar(50)"`
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath returns the object key for path, including the bucket prefix
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

// GetPublicURL returns the public URL of the object at path
func (b *Bucket) GetPublicURL(path string) string {
	base := strings.TrimRight(b.PublicURL, "/")
	if base == "" && b.IsS3() {
		if b.Endpoint != "" {
			base = strings.TrimRight(b.Endpoint, "/") + "/" + b.Name
		} else {
			base = "https://" + b.Name + ".s3." + b.Region + ".amazonaws.com"
		}
	}
	if b.IsS3() {
		return base + "/" + b.GetRemotePath(path)
	}
	return base + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().
		WithRegion(b.Region).
		WithCredentials(credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""))
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}

// TryInit validates the bucket configuration and pre-creates what it needs
func (b *Bucket) TryInit() error {
	if b.Name == "" {
		return errors.New("empty bucket name")
	}
	switch b.StorageType {
	case StorageTypeFile:
		if b.Path == "" {
			return errors.New("empty bucket path")
		}
		return os.MkdirAll(b.Path, 0777)
	case StorageTypeS3:
		if b.S3Key == "" || b.S3Secret == "" {
			return errors.New("'S3 Key' and 'S3 Secret' must be provided")
		}
		if b.Region == "" {
			b.Region = "us-east-1"
		}
		return nil
	}
	return errors.New("unknown storage type")
}
