package storage

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"tooltipper/annotation"
)

// BlobStore adapts a StorageAPI to annotation.BlobStorage
type BlobStore struct {
	Storage StorageAPI
}

func (b *BlobStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if _, err := b.Storage.Save(ctx, suggestedName, bytes.NewReader(data)); err != nil {
		zap.L().Error("store blob", zap.String("name", suggestedName), zap.String("bucket", b.Storage.GetBucket().Name), zap.Error(err))
		return "", fmt.Errorf("%w: %v", annotation.ErrStorage, err)
	}
	return b.Storage.URL(suggestedName), nil
}

// DefaultBlobStore stores into the default bucket
func DefaultBlobStore() *BlobStore {
	return &BlobStore{Storage: GetDefaultStorage()}
}
