package models

import "tooltipper/annotation"

type Tooltip struct {
	ID        uint64  `gorm:"primaryKey"`
	CreatedAt int64   `gorm:"autoCreateTime"`
	PhotoID   uint64  `gorm:"not null;index:photo_tooltips"`
	XPosition float64 `gorm:"type:double;not null"`
	YPosition float64 `gorm:"type:double;not null"`
	Text      string  `gorm:"type:text;not null"`
}

func (t *Tooltip) ToAnnotation() annotation.Tooltip {
	return annotation.Tooltip{
		ID:      t.ID,
		PhotoID: t.PhotoID,
		X:       t.XPosition,
		Y:       t.YPosition,
		Text:    t.Text,
	}
}
