package models

import (
	"encoding/json"
	"time"

	"adchain/internal/domain"
)

// PortfolioSnapshot is a point-in-time scored view of a wallet. Snapshots are
// append-only time-series data; the wallet's current profile is the most
// recent row by created_at.
type PortfolioSnapshot struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	WalletAddress string `gorm:"size:128;not null;index" json:"wallet_address"`

	Ratings ProfileRatings `gorm:"embedded;embeddedPrefix:rating_" json:"profile_ratings"`

	NetWorth   float64 `gorm:"not null;default:0" json:"net_worth"`
	DefiValue  float64 `gorm:"not null;default:0" json:"defi_value"`
	TokenValue float64 `gorm:"not null;default:0" json:"token_value"`

	// RawSummary keeps the provider's aggregated summary as returned, for
	// re-scoring and dashboard drill-down.
	RawSummary string `gorm:"type:text" json:"-"`

	// MonthlyVolume is the 12-bucket transaction-count histogram serialized as
	// a JSON array, oldest month first.
	MonthlyVolume string `gorm:"type:text" json:"-"`

	// EarnedRewards accumulates interaction rewards credited to this wallet.
	// Monotonically non-decreasing.
	EarnedRewards float64 `gorm:"not null;default:0" json:"earned_rewards"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}

// SetMonthlyVolume serializes the histogram (oldest month first).
func (s *PortfolioSnapshot) SetMonthlyVolume(buckets []int) error {
	data, err := json.Marshal(buckets)
	if err != nil {
		return err
	}
	s.MonthlyVolume = string(data)
	return nil
}

// MonthlyVolumeBuckets deserializes the histogram; a missing or corrupt value
// yields 12 zero buckets rather than an error.
func (s *PortfolioSnapshot) MonthlyVolumeBuckets() []int {
	buckets := make([]int, domain.HistogramMonths)
	if s.MonthlyVolume == "" {
		return buckets
	}
	var parsed []int
	if err := json.Unmarshal([]byte(s.MonthlyVolume), &parsed); err != nil {
		return buckets
	}
	copy(buckets, parsed)
	return buckets
}
