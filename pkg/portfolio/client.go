package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Provider fetches raw portfolio and transaction data for a wallet.
type Provider interface {
	FetchSummary(ctx context.Context, walletAddress string) (*Summary, error)
	FetchTransactions(ctx context.Context, walletAddress string, months int) ([]Transaction, error)
}

// HTTPProvider talks to the hosted portfolio aggregation API.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) FetchSummary(ctx context.Context, walletAddress string) (*Summary, error) {
	var out Summary
	path := fmt.Sprintf("/v1/wallets/%s/summary", url.PathEscape(walletAddress))
	if err := p.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) FetchTransactions(ctx context.Context, walletAddress string, months int) ([]Transaction, error) {
	if months <= 0 {
		months = 12
	}
	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	path := fmt.Sprintf("/v1/wallets/%s/transactions?months=%d", url.PathEscape(walletAddress), months)
	if err := p.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("portfolio provider: unexpected status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
