package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"adchain/internal/domain"
	"adchain/internal/repository"
	"adchain/internal/ws"
)

// LedgerStore is the transactional event store behind the service. Satisfied
// by repository.LedgerRepository.
type LedgerStore interface {
	RecordImpression(adID uint, walletAddress string) (*repository.ImpressionResult, error)
	RecordInteraction(adID uint, walletAddress string, requestedAmount float64) (*repository.InteractionResult, error)
}

// LedgerService fronts the ledger store with the retry policy for the
// balance-guard conflict and pushes delivery events to advertiser dashboards.
type LedgerService struct {
	ledgerRepo      LedgerStore
	eventHub        *ws.Hub
	conflictRetries int
}

func NewLedgerService(ledgerRepo LedgerStore, eventHub *ws.Hub, conflictRetries int) *LedgerService {
	if conflictRetries <= 0 {
		conflictRetries = 3
	}
	return &LedgerService{
		ledgerRepo:      ledgerRepo,
		eventHub:        eventHub,
		conflictRetries: conflictRetries,
	}
}

// TrackImpression records a billable impression. Safe to retry: a duplicate
// (ad, wallet) call reports alreadyRecorded and changes nothing.
func (s *LedgerService) TrackImpression(adID uint, walletAddress string) (*repository.ImpressionResult, error) {
	result, err := s.ledgerRepo.RecordImpression(adID, walletAddress)
	if err != nil {
		return nil, err
	}
	if !result.AlreadyRecorded && s.eventHub != nil {
		s.eventHub.BroadcastToAdvertiser(result.AdvertiserID, ws.DeliveryEvent{
			Type:          "impression",
			AdID:          adID,
			WalletAddress: walletAddress,
			Timestamp:     time.Now().Unix(),
		})
	}
	return result, nil
}

// TrackInteraction records a billable click and the reward credit. The budget
// guard can reject the decrement when another wallet spends the balance
// between our read and the conditional update; each retry re-reads the
// balance and recomputes the final amount, so the loop converges either to a
// smaller charge or to ErrInsufficientBudget.
func (s *LedgerService) TrackInteraction(adID uint, walletAddress string, requestedAmount float64) (*repository.InteractionResult, error) {
	var lastErr error
	for attempt := 0; attempt < s.conflictRetries; attempt++ {
		result, err := s.ledgerRepo.RecordInteraction(adID, walletAddress, requestedAmount)
		if err == nil {
			if !result.AlreadyRecorded && s.eventHub != nil {
				s.eventHub.BroadcastToAdvertiser(result.AdvertiserID, ws.DeliveryEvent{
					Type:          "interaction",
					AdID:          adID,
					WalletAddress: walletAddress,
					Amount:        result.Amount,
					Timestamp:     time.Now().Unix(),
				})
			}
			return result, nil
		}
		if !errors.Is(err, domain.ErrBudgetConflict) {
			return nil, err
		}
		lastErr = err
		log.Printf("[ledger] budget conflict on ad %d, retrying (%d/%d)", adID, attempt+1, s.conflictRetries)
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrStorage, lastErr)
}
