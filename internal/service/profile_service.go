package service

import (
	"context"
	"encoding/json"
	"log"

	"adchain/internal/models"
	"adchain/internal/repository"
	"adchain/internal/scoring"
	"adchain/pkg/portfolio"
)

// ProfileService pulls raw portfolio data from the external provider, scores
// it and stores a new snapshot. Scoring is synchronous per request; snapshots
// are append-only.
type ProfileService struct {
	provider      portfolio.Provider
	scorer        *scoring.Scorer
	portfolioRepo *repository.PortfolioRepository
}

func NewProfileService(provider portfolio.Provider, scorer *scoring.Scorer, portfolioRepo *repository.PortfolioRepository) *ProfileService {
	return &ProfileService{
		provider:      provider,
		scorer:        scorer,
		portfolioRepo: portfolioRepo,
	}
}

// Refresh fetches, scores and persists a fresh snapshot for the wallet. The
// prior snapshot's earned rewards carry over so the accumulator never resets.
func (s *ProfileService) Refresh(ctx context.Context, walletAddress string) (*models.PortfolioSnapshot, error) {
	summary, err := s.provider.FetchSummary(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	txs, err := s.provider.FetchTransactions(ctx, walletAddress, 12)
	if err != nil {
		return nil, err
	}

	ratings := s.scorer.Score(summary, txs)
	histogram := s.scorer.MonthlyVolume(txs)

	snap := &models.PortfolioSnapshot{
		WalletAddress: walletAddress,
		Ratings:       ratings,
		NetWorth:      summary.NetWorth,
		DefiValue:     summary.DefiValue,
		TokenValue:    summary.TokenValue,
	}
	if raw, err := json.Marshal(summary); err == nil {
		snap.RawSummary = string(raw)
	}
	if err := snap.SetMonthlyVolume(histogram); err != nil {
		return nil, err
	}
	if prev, err := s.portfolioRepo.GetLatestByWallet(walletAddress); err == nil {
		snap.EarnedRewards = prev.EarnedRewards
	}
	if err := s.portfolioRepo.Create(snap); err != nil {
		return nil, err
	}
	log.Printf("[profile] scored wallet %s: whale=%.1f hodler=%.1f flipper=%.1f defi=%.1f exp=%.1f",
		walletAddress, ratings.Whale, ratings.Hodler, ratings.Flipper, ratings.DefiUser, ratings.Experienced)
	return snap, nil
}
