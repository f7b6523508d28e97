package portfolio

import "time"

// Summary is the aggregated portfolio document returned by the external data
// provider for one wallet. The provider is a black box; these records are the
// validated boundary shape.
type Summary struct {
	NetWorth   float64 `json:"net_worth"`
	DefiValue  float64 `json:"defi_value"`
	TokenValue float64 `json:"token_value"`

	Lending   []LendingPosition   `json:"lending"`
	Liquidity []LiquidityPosition `json:"liquidity"`
	Spot      []SpotToken         `json:"spot"`
	Yield     []YieldToken        `json:"yield"`

	// Status records per-module fetch jobs; Durations carries one entry per
	// completed job over the reporting window.
	Status map[string]ModuleStatus `json:"status"`
}

type ModuleStatus struct {
	Module    string    `json:"module"`
	Durations []float64 `json:"durations"`
}

type LendingPosition struct {
	Platform string  `json:"platform"`
	Token    string  `json:"token"`
	Supplied float64 `json:"supplied"`
	Borrowed float64 `json:"borrowed,omitempty"`
	APR      float64 `json:"apr"`
}

type LiquidityPosition struct {
	Platform string  `json:"platform"`
	Pool     string  `json:"pool"`
	Value    float64 `json:"value"`
	APR      float64 `json:"apr"`
}

type SpotToken struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
	Value  float64 `json:"value"`
}

type YieldToken struct {
	Platform string  `json:"platform"`
	Symbol   string  `json:"symbol"`
	Value    float64 `json:"value"`
	APR      float64 `json:"apr"`
}

// Transaction is one historical on-chain transaction for the wallet.
type Transaction struct {
	Hash      string    `json:"hash"`
	BlockTime time.Time `json:"block_time"`
	Module    string    `json:"module,omitempty"`
	Value     float64   `json:"value,omitempty"`
}
