package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mkadlec/wise-statements/pkg/table"
	"github.com/mkadlec/wise-statements/pkg/utils"
	"github.com/shopspring/decimal"
)

// TotalRowID marks the synthetic summary row of a cashback statement.
const TotalRowID = "TOTAL"

type CashbackRecord struct {
	ResourceID     string
	PreTaxAmount   decimal.Decimal
	WithholdingTax decimal.Decimal
	TotalCashback  decimal.Decimal
	Date           string
	Time           string
}

type payoutDetail struct {
	Description string `json:"description"`
}

// The payout detail endpoint returns a plain list and the amounts are
// identified only by their position in it. Known fragility - the
// indices live here so a response shape change is a one point fix.
const (
	detailIndexPreTax         = 5
	detailIndexWithholdingTax = 6
	detailIndexTotalCashback  = 8
)

func extractPayoutAmounts(details []payoutDetail) (preTax, withholdingTax, totalCashback string, err error) {
	if len(details) <= detailIndexTotalCashback {
		return "", "", "", fmt.Errorf("unexpected number of payout details: %d", len(details))
	}

	return details[detailIndexPreTax].Description,
		details[detailIndexWithholdingTax].Description,
		details[detailIndexTotalCashback].Description,
		nil
}

// parseAmount turns a detail description like "10.00 EUR" into a decimal.
func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(value, " EUR", "")))
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not parse amount %q: %w", value, err)
	}

	return amount, nil
}

func (c *Client) getPayoutDetails(ctx context.Context, profileID int64, resourceID string) ([]payoutDetail, error) {
	resp, err := c.get(ctx, "cashback-details", fmt.Sprintf("/v1/profiles/%d/cashback-payouts/%s/details", profileID, resourceID), nil, nil)
	if err != nil {
		return nil, NewCashbackDetailError(err.Error())
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, NewCashbackDetailError(err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewCashbackDetailError(fmt.Sprintf("could not get cashback payout %s: status %d: %s", resourceID, resp.StatusCode, body))
	}

	var details []payoutDetail
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, NewCashbackDetailError(fmt.Sprintf("could not unmarshal cashback payout %s: %v", resourceID, err))
	}

	return details, nil
}

// GetCashbackStatement assembles the cashback report for the period:
// one record per cashback activity in listing order, followed by a
// synthetic TOTAL row with the column-wise sums. A single failing
// detail fetch abandons the whole assembly.
func (c *Client) GetCashbackStatement(ctx context.Context, profileID int64, start, end time.Time) ([]CashbackRecord, error) {
	activities, err := c.ListCashbackActivities(ctx, profileID, start, end)
	if err != nil {
		return nil, err
	}

	records := make([]CashbackRecord, 0, len(activities)+1)
	for _, activity := range activities {
		details, err := c.getPayoutDetails(ctx, profileID, activity.ResourceID)
		if err != nil {
			return nil, err
		}

		preTaxRaw, taxRaw, totalRaw, err := extractPayoutAmounts(details)
		if err != nil {
			return nil, NewCashbackDetailError(err.Error())
		}

		record := CashbackRecord{
			ResourceID: activity.ResourceID,
			Date:       activity.Date,
			Time:       activity.Time,
		}
		if record.PreTaxAmount, err = parseAmount(preTaxRaw); err != nil {
			return nil, NewCashbackDetailError(err.Error())
		}
		if record.WithholdingTax, err = parseAmount(taxRaw); err != nil {
			return nil, NewCashbackDetailError(err.Error())
		}
		if record.TotalCashback, err = parseAmount(totalRaw); err != nil {
			return nil, NewCashbackDetailError(err.Error())
		}

		records = append(records, record)
	}

	total := CashbackRecord{ResourceID: TotalRowID}
	for _, record := range records {
		total.PreTaxAmount = total.PreTaxAmount.Add(record.PreTaxAmount)
		total.WithholdingTax = total.WithholdingTax.Add(record.WithholdingTax)
		total.TotalCashback = total.TotalCashback.Add(record.TotalCashback)
	}

	return append(records, total), nil
}

// CashbackTable renders cashback records as a display table with dates
// in the DD.MM.YYYY form.
func CashbackTable(records []CashbackRecord) *table.Table {
	t := &table.Table{
		Columns: []string{"Resource ID", "Pre-tax amount", "Withholding tax", "Total cashback", "Date", "Time"},
		Rows:    make([][]string, 0, len(records)),
	}

	for _, record := range records {
		t.Rows = append(t.Rows, []string{
			record.ResourceID,
			record.PreTaxAmount.StringFixed(2),
			record.WithholdingTax.StringFixed(2),
			record.TotalCashback.StringFixed(2),
			utils.DisplayDate(record.Date),
			record.Time,
		})
	}

	return t
}
