package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type Balance struct {
	ID       int64  `json:"id"`
	Currency string `json:"currency"`
	Type     string `json:"type"` // STANDARD or SAVINGS
	Name     string `json:"name"`
	Amount   Amount `json:"amount"`
}

type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// ListBalances returns all balances of a profile, either the standard
// ones or the savings jars.
func (c *Client) ListBalances(ctx context.Context, profileID int64, jar bool) ([]Balance, error) {
	balanceType := "STANDARD"
	if jar {
		balanceType = "SAVINGS"
	}

	query := url.Values{}
	query.Set("types", balanceType)

	resp, err := c.get(ctx, "balances", fmt.Sprintf("/v4/profiles/%d/balances", profileID), query, nil)
	if err != nil {
		return nil, NewBalanceFetchError(err.Error())
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, NewBalanceFetchError(err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewBalanceFetchError(fmt.Sprintf("could not get balances: status %d: %s", resp.StatusCode, body))
	}

	var balances []Balance
	if err := json.Unmarshal(body, &balances); err != nil {
		return nil, NewBalanceFetchError(fmt.Sprintf("could not unmarshal balances: %v", err))
	}

	return balances, nil
}

// GetBalance filters the profile's balances by currency. A missing
// balance is not an error - the caller gets a nil balance and a zero id.
// More than one match for the currency is only logged and the first one
// is used.
func (c *Client) GetBalance(ctx context.Context, profileID int64, currency string, jar bool) (*Balance, int64, error) {
	balances, err := c.ListBalances(ctx, profileID, jar)
	if err != nil {
		return nil, 0, err
	}

	matches := make([]Balance, 0, len(balances))
	for _, b := range balances {
		if b.Currency == currency {
			matches = append(matches, b)
		}
	}

	if len(matches) == 0 {
		return nil, 0, nil
	}

	if len(matches) > 1 {
		c.logger.Warnf("More than one %s balance found. The first one is used.", currency)
	}

	return &matches[0], matches[0].ID, nil
}
