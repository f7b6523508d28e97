package models

import (
	"time"

	"adchain/internal/domain"

	"gorm.io/gorm"
)

// ProfileRatings is the five-dimensional behavioral profile. Embedded both in
// portfolio snapshots (a wallet's scored profile) and in ads (the targeting
// criteria). Every value is clamped to [0,100] before storage.
type ProfileRatings struct {
	Whale       float64 `gorm:"not null;default:0" json:"whale"`
	Hodler      float64 `gorm:"not null;default:0" json:"hodler"`
	Flipper     float64 `gorm:"not null;default:0" json:"flipper"`
	DefiUser    float64 `gorm:"not null;default:0" json:"defi_user"`
	Experienced float64 `gorm:"not null;default:0" json:"experienced"`
}

// Clamp bounds every rating to [RatingMin, RatingMax].
func (p *ProfileRatings) Clamp() {
	p.Whale = clampRating(p.Whale)
	p.Hodler = clampRating(p.Hodler)
	p.Flipper = clampRating(p.Flipper)
	p.DefiUser = clampRating(p.DefiUser)
	p.Experienced = clampRating(p.Experienced)
}

// MatchesWithin reports whether at least one of other's dimensions falls in
// [dimension-tolerance, dimension+tolerance], inclusive. OR across dimensions.
func (p ProfileRatings) MatchesWithin(other ProfileRatings, tolerance float64) bool {
	pairs := [][2]float64{
		{p.Whale, other.Whale},
		{p.Hodler, other.Hodler},
		{p.Flipper, other.Flipper},
		{p.DefiUser, other.DefiUser},
		{p.Experienced, other.Experienced},
	}
	for _, pair := range pairs {
		if pair[1] >= pair[0]-tolerance && pair[1] <= pair[0]+tolerance {
			return true
		}
	}
	return false
}

func clampRating(v float64) float64 {
	if v < domain.RatingMin {
		return domain.RatingMin
	}
	if v > domain.RatingMax {
		return domain.RatingMax
	}
	return v
}

type Ad struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	AdvertiserID     uint    `gorm:"not null;index" json:"advertiser_id"`
	Name             string  `gorm:"size:255;not null" json:"name"`
	ShortDescription string  `gorm:"size:512" json:"short_description"`
	Body             string  `gorm:"type:text" json:"body"`
	MediaURL         string  `gorm:"size:512" json:"media_url"`
	TotalBalance     float64 `gorm:"not null" json:"total_balance"` // fixed at creation
	RemainingBalance float64 `gorm:"not null;check:chk_ads_balance,remaining_balance >= 0 AND remaining_balance <= total_balance" json:"remaining_balance"`

	DesiredProfile ProfileRatings `gorm:"embedded;embeddedPrefix:desired_" json:"desired_profile"`

	Impressions  int64          `gorm:"not null;default:0" json:"impressions"`
	Interactions int64          `gorm:"not null;default:0" json:"interactions"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Advertiser Advertiser `gorm:"foreignKey:AdvertiserID" json:"-"`
}

func (Ad) TableName() string {
	return "ads"
}

// Active reports whether the ad still has budget to serve.
func (a *Ad) Active() bool { return a.RemainingBalance > 0 }

// InteractionRate is interactions per impression; 0 when nothing was shown yet.
func (a *Ad) InteractionRate() float64 {
	if a.Impressions == 0 {
		return 0
	}
	return float64(a.Interactions) / float64(a.Impressions)
}
