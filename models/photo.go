package models

import (
	"time"

	"tooltipper/annotation"
)

type Photo struct {
	ID        uint64    `gorm:"primaryKey"`
	CreatedAt int64     `gorm:"autoCreateTime"`
	ImageURL  string    `gorm:"type:varchar(2000);not null"`
	ShortID   string    `gorm:"type:varchar(6);index:uniq_short_id,unique;not null"`
	Tooltips  []Tooltip `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (p *Photo) ToAnnotation() annotation.Photo {
	return annotation.Photo{
		ID:        p.ID,
		ImageURL:  p.ImageURL,
		ShortID:   p.ShortID,
		CreatedAt: time.Unix(p.CreatedAt, 0),
	}
}
