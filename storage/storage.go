package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tooltipper/config"
	"tooltipper/db"
)

type StorageAPI interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Load(ctx context.Context, path string, writer io.Writer) (int64, error)
	// URL returns the public URL of the object at path
	URL(path string) string
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

func (s *Storage) URL(path string) string {
	return s.Bucket.GetPublicURL(path)
}

var (
	cachedStorage []StorageAPI
	cacheMutex    sync.RWMutex
)

// Init loads all buckets. When there are none, a default bucket is created from config:
// S3 if S3_BUCKET is set, a local directory otherwise.
func Init() {
	if err := db.Instance.AutoMigrate(&Bucket{}); err != nil {
		zap.L().Fatal("auto-migrate buckets", zap.Error(err))
	}
	var buckets []Bucket
	if err := db.Instance.Order("id").Find(&buckets).Error; err != nil {
		panic(err)
	}
	if len(buckets) == 0 {
		bucket := DefaultBucket()
		if err := bucket.TryInit(); err != nil {
			zap.L().Fatal("default bucket", zap.String("name", bucket.Name), zap.Error(err))
		}
		if err := db.Instance.Create(&bucket).Error; err != nil {
			panic(err)
		}
		buckets = append(buckets, bucket)
	}
	zap.L().Info("storage buckets found", zap.Int("count", len(buckets)))
	loaded := make([]StorageAPI, 0, len(buckets))
	for i := range buckets {
		s, err := NewStorage(&buckets[i])
		if err != nil {
			panic(err)
		}
		zap.L().Info("bucket", zap.Uint64("id", buckets[i].ID), zap.String("name", buckets[i].Name), zap.Bool("s3", buckets[i].IsS3()))
		loaded = append(loaded, s)
	}
	Use(loaded...)
}

func DefaultBucket() Bucket {
	if config.S3_BUCKET != "" {
		return Bucket{
			Name:        config.S3_BUCKET,
			StorageType: StorageTypeS3,
			Path:        "photos",
			PublicURL:   config.S3_PUBLIC_URL,
			Endpoint:    config.S3_ENDPOINT,
			Region:      config.S3_REGION,
			S3Key:       config.S3_KEY,
			S3Secret:    config.S3_SECRET,
		}
	}
	return Bucket{
		Name:        "photos",
		StorageType: StorageTypeFile,
		Path:        config.DEFAULT_BUCKET_DIR,
		PublicURL:   strings.TrimRight(config.PUBLIC_ORIGIN, "/") + "/photos",
	}
}

func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		s := NewS3Storage(bucket)
		if err := s.EnsureBucket(context.Background()); err != nil {
			zap.L().Warn("ensure S3 bucket", zap.String("bucket", bucket.Name), zap.Error(err))
		}
		return s, nil
	}
	return nil, fmt.Errorf("storage type unavailable for bucket %d", bucket.ID)
}

// Use replaces the loaded storages
func Use(storages ...StorageAPI) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	cachedStorage = storages
}

func GetDefaultStorage() StorageAPI {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	if len(cachedStorage) == 0 {
		panic("no storage available")
	}
	return cachedStorage[0]
}

// StorageForURL finds the storage a public URL was produced by, and the object path within it
func StorageForURL(rawURL string) (StorageAPI, string, bool) {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	for _, s := range cachedStorage {
		prefix := s.URL("")
		if path, ok := strings.CutPrefix(rawURL, prefix); ok && path != "" && !strings.Contains(path, "..") {
			return s, path, true
		}
	}
	return nil, "", false
}

// StaticRoutes maps URL paths to directories for disk buckets served by this process
func StaticRoutes() map[string]string {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	result := map[string]string{}
	for _, s := range cachedStorage {
		bucket := s.GetBucket()
		if bucket.IsS3() || bucket.PublicURL == "" {
			continue
		}
		u, err := url.Parse(bucket.PublicURL)
		if err != nil || u.Path == "" || u.Path == "/" {
			continue
		}
		result[strings.TrimRight(u.Path, "/")] = bucket.Path
	}
	return result
}
