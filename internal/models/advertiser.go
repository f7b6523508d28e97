package models

import (
	"time"

	"gorm.io/gorm"
)

type Advertiser struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	DisplayName  string         `gorm:"size:128;not null" json:"display_name"`
	Description  string         `gorm:"type:text" json:"description"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Ads []Ad `gorm:"foreignKey:AdvertiserID" json:"ads,omitempty"`
}

func (Advertiser) TableName() string {
	return "advertisers"
}
