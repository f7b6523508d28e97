package models

import "time"

// AdImpression records that an ad was shown to a wallet. Insert-only; the
// composite unique index is the billing dedup guarantee — at most one
// impression row may ever exist per (ad, wallet).
type AdImpression struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AdID          uint      `gorm:"not null;uniqueIndex:idx_impressions_ad_wallet" json:"ad_id"`
	WalletAddress string    `gorm:"size:128;not null;uniqueIndex:idx_impressions_ad_wallet" json:"wallet_address"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	Ad Ad `gorm:"foreignKey:AdID" json:"-"`
}

func (AdImpression) TableName() string {
	return "ad_impressions"
}

// AdInteraction records a billable click. Amount is the reward actually
// charged against the ad's budget (the requested amount capped by the
// remaining balance at commit time).
type AdInteraction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AdID          uint      `gorm:"not null;uniqueIndex:idx_interactions_ad_wallet" json:"ad_id"`
	WalletAddress string    `gorm:"size:128;not null;uniqueIndex:idx_interactions_ad_wallet" json:"wallet_address"`
	Amount        float64   `gorm:"not null" json:"amount"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	Ad Ad `gorm:"foreignKey:AdID" json:"-"`
}

func (AdInteraction) TableName() string {
	return "ad_interactions"
}
