package scoring

import (
	"time"

	"adchain/internal/domain"
	"adchain/internal/models"
	"adchain/pkg/portfolio"
)

// Weights and scale ceilings for the five behavioral scores. A wallet hits the
// ceiling of a sub-score at the named quantity (e.g. 5 distinct platforms, 10
// transactions per month, 20% average APR, 1000 lifetime transactions).
const (
	whalePerHundred = 10.0

	valueRatioWeight = 0.7
	diversityWeight  = 0.3

	platformCeiling = 5.0
	holdingCeiling  = 5.0

	txFreqWeight        = 0.6
	yieldWeight         = 0.4
	txPerMonthCeiling   = 10.0
	avgAPRCeiling       = 20.0
	txVolumeWeight      = 0.6
	expDiversityWeight  = 0.4
	totalTxCountCeiling = 1000.0
)

// Scorer derives ProfileRatings from a portfolio summary and up to 12 months
// of transactions. Pure: no I/O, deterministic for a fixed clock.
type Scorer struct {
	now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt pins the clock, so histogram bucketing is reproducible.
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Score computes the five ratings. Every ratio with a zero denominator
// evaluates to 0, never NaN.
func (s *Scorer) Score(sum *portfolio.Summary, txs []portfolio.Transaction) models.ProfileRatings {
	diversity := platformDiversityScore(sum)

	r := models.ProfileRatings{
		Whale:       sum.NetWorth / 100 * whalePerHundred,
		DefiUser:    valueRatioWeight*ratio(sum.DefiValue, sum.NetWorth) + diversityWeight*diversity,
		Hodler:      valueRatioWeight*ratio(sum.TokenValue, sum.NetWorth) + diversityWeight*countScore(len(sum.Spot), holdingCeiling),
		Flipper:     txFreqWeight*txFrequencyScore(sum) + yieldWeight*avgYieldScore(sum),
		Experienced: txVolumeWeight*txVolumeScore(len(txs)) + expDiversityWeight*diversity,
	}
	r.Clamp()
	return r
}

// MonthlyVolume buckets transactions into the last 12 calendar months and
// returns the histogram oldest month first. Internally bucket 0 is the
// current month; the returned slice is reversed because dashboards plot the
// series left to right and depend on that order.
func (s *Scorer) MonthlyVolume(txs []portfolio.Transaction) []int {
	now := s.now()
	// Anchor on the first of the current month so subtracting months never
	// skips short months.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	buckets := make([]int, domain.HistogramMonths)
	for i := 0; i < domain.HistogramMonths; i++ {
		month := anchor.AddDate(0, -i, 0)
		for _, tx := range txs {
			t := tx.BlockTime.In(now.Location())
			if t.Year() == month.Year() && t.Month() == month.Month() {
				buckets[i]++
			}
		}
	}
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets
}

// ratio is a/b scaled to percent, 0 when b is 0.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b * 100
}

func countScore(n int, ceiling float64) float64 {
	v := float64(n)
	if v > ceiling {
		v = ceiling
	}
	return v / ceiling * 100
}

// platformDiversityScore counts distinct platform names across lending and
// liquidity positions, maxing out at platformCeiling.
func platformDiversityScore(sum *portfolio.Summary) float64 {
	seen := make(map[string]struct{})
	for _, p := range sum.Lending {
		if p.Platform != "" {
			seen[p.Platform] = struct{}{}
		}
	}
	for _, p := range sum.Liquidity {
		if p.Platform != "" {
			seen[p.Platform] = struct{}{}
		}
	}
	return countScore(len(seen), platformCeiling)
}

// txFrequencyScore is the monthly average of lending-module job durations
// recorded in the status map, scaled so txPerMonthCeiling per month hits 100.
func txFrequencyScore(sum *portfolio.Summary) float64 {
	status, ok := sum.Status["lending"]
	if !ok {
		return 0
	}
	perMonth := float64(len(status.Durations)) / float64(domain.HistogramMonths)
	score := perMonth / txPerMonthCeiling * 100
	if score > 100 {
		score = 100
	}
	return score
}

// avgYieldScore is the mean APR across lending and liquidity yield positions,
// scaled so avgAPRCeiling percent hits 100.
func avgYieldScore(sum *portfolio.Summary) float64 {
	var total float64
	var count int
	for _, p := range sum.Lending {
		if p.APR > 0 {
			total += p.APR
			count++
		}
	}
	for _, p := range sum.Liquidity {
		if p.APR > 0 {
			total += p.APR
			count++
		}
	}
	if count == 0 {
		return 0
	}
	score := (total / float64(count)) / avgAPRCeiling * 100
	if score > 100 {
		score = 100
	}
	return score
}

func txVolumeScore(totalTx int) float64 {
	score := float64(totalTx) / totalTxCountCeiling * 100
	if score > 100 {
		score = 100
	}
	return score
}
