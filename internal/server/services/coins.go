package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/server/marketdata"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 50
	DefaultOrder   = "market_cap_desc"
	maxPerPage     = 250
)

var validOrders = map[string]struct{}{
	"market_cap_desc": {},
	"market_cap_asc":  {},
	"volume_desc":     {},
	"volume_asc":      {},
	"id_asc":          {},
	"id_desc":         {},
}

// CoinService validates market-data requests and forwards them to the
// (cached) upstream source. Responses are the upstream JSON, untouched.
type CoinService struct {
	source marketdata.Source
}

func NewCoinService(source marketdata.Source) *CoinService {
	return &CoinService{source: source}
}

func (s *CoinService) ListCoins(ctx context.Context, page, perPage int, order string) (json.RawMessage, error) {
	switch {
	case page < 1:
		return nil, common.NewValidationError("page: must be at least 1")
	case perPage < 1 || perPage > maxPerPage:
		return nil, common.NewValidationError("perPage: must be between 1 and 250")
	}
	if _, ok := validOrders[order]; !ok {
		return nil, common.NewValidationError("orderBy: unsupported order " + order)
	}

	body, err := s.source.Markets(ctx, marketdata.MarketQuery{Page: page, PerPage: perPage, Order: order})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (s *CoinService) CoinDetail(ctx context.Context, id string) (json.RawMessage, error) {
	id, err := normalizeCoinID(id)
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(id, "/?#") {
		return nil, errInvalidCoinID
	}

	body, err := s.source.Coin(ctx, id)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
