package repository

import (
	"sort"
	"time"

	"adchain/internal/models"

	"gorm.io/gorm"
)

// AnalyticsRepository is read-only: rollups over the ads and event tables for
// advertiser dashboards. Every method degrades to zeroed output when the
// advertiser has no ads or no events yet.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type AdvertiserTotals struct {
	Ads              int64   `json:"ads"`
	Impressions      int64   `json:"impressions"`
	Interactions     int64   `json:"interactions"`
	TotalBalance     float64 `json:"total_balance"`
	RemainingBalance float64 `json:"remaining_balance"`
	Spent            float64 `json:"spent"`
}

// DailyPoint is one day in the dense time series. Day is YYYY-MM-DD.
type DailyPoint struct {
	Day          string `json:"day"`
	Impressions  int64  `json:"impressions"`
	Interactions int64  `json:"interactions"`
}

func (r *AnalyticsRepository) Totals(advertiserID uint) (*AdvertiserTotals, error) {
	var t AdvertiserTotals
	err := r.db.Model(&models.Ad{}).
		Select(`COUNT(*) AS ads,
			COALESCE(SUM(impressions), 0) AS impressions,
			COALESCE(SUM(interactions), 0) AS interactions,
			COALESCE(SUM(total_balance), 0) AS total_balance,
			COALESCE(SUM(remaining_balance), 0) AS remaining_balance`).
		Where("advertiser_id = ?", advertiserID).
		Scan(&t).Error
	if err != nil {
		return nil, err
	}
	t.Spent = t.TotalBalance - t.RemainingBalance
	return &t, nil
}

// DailySeries returns one point per day for the trailing window, oldest
// first, zero-filled so charts never see gaps.
func (r *AnalyticsRepository) DailySeries(advertiserID uint, days int, now time.Time) ([]DailyPoint, error) {
	if days <= 0 {
		days = 30
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	impressions, err := r.eventTimes(&models.AdImpression{}, "ad_impressions", advertiserID, start)
	if err != nil {
		return nil, err
	}
	interactions, err := r.eventTimes(&models.AdInteraction{}, "ad_interactions", advertiserID, start)
	if err != nil {
		return nil, err
	}

	impByDay := bucketByDay(impressions)
	intByDay := bucketByDay(interactions)

	series := make([]DailyPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, DailyPoint{
			Day:          day,
			Impressions:  impByDay[day],
			Interactions: intByDay[day],
		})
	}
	return series, nil
}

func (r *AnalyticsRepository) eventTimes(model interface{}, table string, advertiserID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Model(model).
		Joins("JOIN ads ON ads.id = "+table+".ad_id").
		Where("ads.advertiser_id = ?", advertiserID).
		Where(table+".created_at >= ?", since).
		Pluck(table+".created_at", &times).Error
	return times, err
}

func bucketByDay(times []time.Time) map[string]int64 {
	out := make(map[string]int64, len(times))
	for _, t := range times {
		out[t.Local().Format("2006-01-02")]++
	}
	return out
}

// TopAds ranks the advertiser's ads by interaction rate, then by impression
// count. Ads that were never shown rank with rate 0.
func (r *AnalyticsRepository) TopAds(advertiserID uint, limit int) ([]models.Ad, error) {
	ads, err := r.allAds(advertiserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ads, func(i, j int) bool {
		ri, rj := ads[i].InteractionRate(), ads[j].InteractionRate()
		if ri != rj {
			return ri > rj
		}
		return ads[i].Impressions > ads[j].Impressions
	})
	if limit > 0 && len(ads) > limit {
		ads = ads[:limit]
	}
	return ads, nil
}

// AudienceWallets returns the distinct wallets that ever viewed any of the
// advertiser's ads.
func (r *AnalyticsRepository) AudienceWallets(advertiserID uint) ([]string, error) {
	var wallets []string
	err := r.db.Model(&models.AdImpression{}).
		Distinct().
		Joins("JOIN ads ON ads.id = ad_impressions.ad_id").
		Where("ads.advertiser_id = ?", advertiserID).
		Pluck("ad_impressions.wallet_address", &wallets).Error
	return wallets, err
}

func (r *AnalyticsRepository) allAds(advertiserID uint) ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.Where("advertiser_id = ?", advertiserID).Find(&ads).Error
	return ads, err
}
