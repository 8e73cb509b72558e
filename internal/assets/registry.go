// Package assets extends the engine's currency universe with non-ISO assets
// (cryptocurrencies, stablecoins, CBDCs) mapped onto ISO-20022-compatible
// codes, each carrying its own precision and transfer bounds.
package assets

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// Asset is one registered non-ISO asset. Min and Max are decimal strings in
// the asset's own unit; Decimals is the finest fraction the asset's rail
// settles (e.g. 8 for Bitcoin satoshi, 6 for an XRP drop).
type Asset struct {
	Symbol   string `json:"symbol" mapstructure:"symbol"`
	Name     string `json:"name" mapstructure:"name"`
	Decimals int32  `json:"decimals" mapstructure:"decimals"`
	Min      string `json:"minimum_amount" mapstructure:"minimum_amount"`
	Max      string `json:"maximum_amount" mapstructure:"maximum_amount"`

	min decimal.Decimal
	max decimal.Decimal
}

// Registry is the immutable asset table, loaded once at process start.
type Registry struct {
	assets map[string]Asset
}

// NewRegistry builds a registry from the given assets, rejecting entries
// with unusable symbols, precision, or bounds. A missing Min defaults to one
// smallest unit (10^-decimals).
func NewRegistry(assets []Asset) (*Registry, error) {
	table := make(map[string]Asset, len(assets))
	for _, a := range assets {
		if a.Symbol == "" {
			return nil, fmt.Errorf("asset registry: empty symbol")
		}
		// Amount strings carry at most 17 fractional digits end to end.
		if a.Decimals < 0 || a.Decimals > 17 {
			return nil, fmt.Errorf("asset registry: %s: decimals %d outside 0-17", a.Symbol, a.Decimals)
		}
		if a.Min == "" {
			a.Min = decimal.New(1, -a.Decimals).String()
		}
		min, err := decimal.NewFromString(a.Min)
		if err != nil {
			return nil, fmt.Errorf("asset registry: %s: minimum %q: %w", a.Symbol, a.Min, err)
		}
		max, err := decimal.NewFromString(a.Max)
		if err != nil {
			return nil, fmt.Errorf("asset registry: %s: maximum %q: %w", a.Symbol, a.Max, err)
		}
		if max.LessThan(min) {
			return nil, fmt.Errorf("asset registry: %s: maximum %s below minimum %s", a.Symbol, a.Max, a.Min)
		}
		a.min, a.max = min, max
		table[a.Symbol] = a
	}
	return &Registry{assets: table}, nil
}

// DefaultAssets is the built-in registry table, used when the configuration
// does not supply one.
func DefaultAssets() []Asset {
	return []Asset{
		{Symbol: "BTC", Name: "Bitcoin", Decimals: 8, Min: "0.00000001", Max: "21000000"},
		{Symbol: "ETH", Name: "Ether", Decimals: 17, Min: "0.00000000000000001", Max: "120000000"},
		{Symbol: "XRP", Name: "XRP", Decimals: 6, Min: "0.000001", Max: "100000000000"},
		{Symbol: "USDT", Name: "Tether USD", Decimals: 6, Min: "0.000001", Max: "1000000000"},
		{Symbol: "USDC", Name: "USD Coin", Decimals: 6, Min: "0.000001", Max: "1000000000"},
		{Symbol: "ECNY", Name: "Digital Yuan", Decimals: 2, Min: "0.01", Max: "50000000"},
	}
}

// Get looks up an asset by symbol.
func (r *Registry) Get(symbol string) (Asset, bool) {
	a, ok := r.assets[symbol]
	return a, ok
}

// Codes returns the registered symbols as currency codes, sorted, for
// extending the validator's accepted set.
func (r *Registry) Codes() []iso20022.CurrencyCode {
	codes := make([]iso20022.CurrencyCode, 0, len(r.assets))
	for sym := range r.assets {
		codes = append(codes, iso20022.CurrencyCode(sym))
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Len returns the number of registered assets.
func (r *Registry) Len() int { return len(r.assets) }
