package pricing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/domain"
)

// quoteResponse is the payload of the quoting service
type quoteResponse struct {
	Symbol   string          `json:"symbol"`
	PriceUSD decimal.Decimal `json:"priceUsd"`
}

// httpQuoter asks an external quoting service for USD prices
type httpQuoter struct {
	client  adapter.HTTPClient
	baseURL string
}

// NewHTTPQuoter creates a Quoter calling GET {baseURL}/quote?symbol=<symbol>
func NewHTTPQuoter(client adapter.HTTPClient, baseURL string) Quoter {
	return &httpQuoter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (q *httpQuoter) QuoteUSD(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return decimal.Zero, fmt.Errorf("empty symbol: %w", domain.ErrUnknownRoute)
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s", q.baseURL, url.QueryEscape(symbol))

	var resp quoteResponse
	if err := q.client.Get(ctx, endpoint, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to quote %s: %w", symbol, err)
	}

	if resp.PriceUSD.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative quote for %s: %s", symbol, resp.PriceUSD)
	}

	return resp.PriceUSD, nil
}
