package models

import (
	"context"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tooltipper/annotation"
)

const mysqlDuplicateEntry = 1062

// Repository implements annotation.Persistence on top of gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePhoto(ctx context.Context, imageURL, shortID string) (annotation.Photo, error) {
	photo := Photo{
		ImageURL: imageURL,
		ShortID:  shortID,
	}
	if err := r.db.WithContext(ctx).Create(&photo).Error; err != nil {
		if isDuplicateKey(err) {
			return annotation.Photo{}, fmt.Errorf("%w: %s", annotation.ErrDuplicateShortID, shortID)
		}
		zap.L().Error("create photo", zap.String("short_id", shortID), zap.Error(err))
		return annotation.Photo{}, fmt.Errorf("%w: %v", annotation.ErrPersistence, err)
	}
	return photo.ToAnnotation(), nil
}

func (r *Repository) GetPhotoByShortID(ctx context.Context, shortID string) (annotation.Photo, error) {
	photo := Photo{}
	err := r.db.WithContext(ctx).Where("short_id = ?", shortID).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return annotation.Photo{}, fmt.Errorf("%w: photo %s", annotation.ErrNotFound, shortID)
	}
	if err != nil {
		return annotation.Photo{}, fmt.Errorf("%w: %v", annotation.ErrPersistence, err)
	}
	return photo.ToAnnotation(), nil
}

func (r *Repository) CreateTooltip(ctx context.Context, photoID uint64, x, y float64, text string) (annotation.Tooltip, error) {
	tooltip := Tooltip{
		PhotoID:   photoID,
		XPosition: x,
		YPosition: y,
		Text:      text,
	}
	if err := r.db.WithContext(ctx).Create(&tooltip).Error; err != nil {
		zap.L().Error("create tooltip", zap.Uint64("photo_id", photoID), zap.Error(err))
		return annotation.Tooltip{}, fmt.Errorf("%w: %v", annotation.ErrPersistence, err)
	}
	return tooltip.ToAnnotation(), nil
}

func (r *Repository) DeleteTooltip(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&Tooltip{}, "id = ?", id)
	if result.Error != nil {
		zap.L().Error("delete tooltip", zap.Uint64("id", id), zap.Error(result.Error))
		return fmt.Errorf("%w: %v", annotation.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: tooltip %d", annotation.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) ListTooltips(ctx context.Context, photoID uint64) ([]annotation.Tooltip, error) {
	rows := []Tooltip{}
	err := r.db.WithContext(ctx).Where("photo_id = ?", photoID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", annotation.ErrPersistence, err)
	}
	result := make([]annotation.Tooltip, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToAnnotation())
	}
	return result, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}
