package domain

const (
	// MatchTolerance is the half-width of the targeting window: an ad matches a
	// wallet when at least one desired rating falls within ±MatchTolerance of
	// the wallet's rating (inclusive).
	MatchTolerance = 10.0

	// RatingMin/RatingMax bound every stored profile rating.
	RatingMin = 0.0
	RatingMax = 100.0
)

// HistogramMonths is the number of monthly volume buckets kept per snapshot.
const HistogramMonths = 12
