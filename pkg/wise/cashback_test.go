package wise

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payoutDetailsJSON builds a detail list with the amounts at the
// positions the provider uses.
func payoutDetailsJSON(preTax, tax, total string) string {
	descriptions := make([]string, detailIndexTotalCashback+1)
	for i := range descriptions {
		descriptions[i] = fmt.Sprintf("filler %d", i)
	}
	descriptions[detailIndexPreTax] = preTax
	descriptions[detailIndexWithholdingTax] = tax
	descriptions[detailIndexTotalCashback] = total

	items := make([]string, len(descriptions))
	for i, d := range descriptions {
		items[i] = fmt.Sprintf(`{"description":%q}`, d)
	}

	return "[" + strings.Join(items, ",") + "]"
}

func TestGetCashbackStatement(t *testing.T) {
	details := map[string]string{
		"r1": payoutDetailsJSON("10.00 EUR", "2.00 EUR", "7.50 EUR"),
		"r2": payoutDetailsJSON("5.00 EUR", "1.00 EUR", "4.00 EUR"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/profiles/7/activities" {
			_, _ = fmt.Fprint(w, `{"activities":[
				{"type":"BALANCE_CASHBACK","resource":{"id":"r1"},"createdOn":"2024-03-05T10:20:30.000000Z"},
				{"type":"CARD_PAYMENT","resource":{"id":"x1"},"createdOn":"2024-03-05T12:00:00.000000Z"},
				{"type":"BALANCE_CASHBACK","resource":{"id":"r2"},"createdOn":"2024-03-06T09:15:00.000000Z"}
			]}`)
			return
		}

		for id, payload := range details {
			if r.URL.Path == "/v1/profiles/7/cashback-payouts/"+id+"/details" {
				_, _ = fmt.Fprint(w, payload)
				return
			}
		}

		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-31")

	records, err := client.GetCashbackStatement(context.Background(), 7, start, end)
	require.NoError(t, err)
	require.Len(t, records, 3, "two records plus the TOTAL row")

	assert.Equal(t, "r1", records[0].ResourceID)
	assert.Equal(t, "05-03-2024", records[0].Date)
	assert.Equal(t, "10:20:30", records[0].Time)
	assert.Equal(t, "10.00", records[0].PreTaxAmount.StringFixed(2))

	assert.Equal(t, "r2", records[1].ResourceID)

	total := records[2]
	assert.Equal(t, TotalRowID, total.ResourceID)
	assert.Empty(t, total.Date)
	assert.Empty(t, total.Time)
	assert.Equal(t, "15.00", total.PreTaxAmount.StringFixed(2))
	assert.Equal(t, "3.00", total.WithholdingTax.StringFixed(2))
	assert.Equal(t, "11.50", total.TotalCashback.StringFixed(2))
}

func TestGetCashbackStatementEmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"activities":[]}`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-31")

	records, err := client.GetCashbackStatement(context.Background(), 7, start, end)
	require.NoError(t, err)

	// even an empty window carries the TOTAL row
	require.Len(t, records, 1)
	assert.Equal(t, TotalRowID, records[0].ResourceID)
	assert.Equal(t, "0.00", records[0].TotalCashback.StringFixed(2))
}

func TestGetCashbackStatementDetailFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/profiles/7/activities" {
			_, _ = fmt.Fprint(w, `{"activities":[{"type":"BALANCE_CASHBACK","resource":{"id":"r1"},"createdOn":"2024-03-05T10:20:30.000000Z"}]}`)
			return
		}
		http.Error(w, "payout gone", http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-31")

	records, err := client.GetCashbackStatement(context.Background(), 7, start, end)
	assert.Nil(t, records, "a single failing detail abandons the assembly")

	var detailErr *CashbackDetailError
	require.ErrorAs(t, err, &detailErr)
	// the response body makes it into the message
	assert.Contains(t, detailErr.Message, "payout gone")
}

func TestExtractPayoutAmountsTooShort(t *testing.T) {
	_, _, _, err := extractPayoutAmounts([]payoutDetail{{Description: "only one"}})
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"10.00 EUR", "10.00", true},
		{"0.01 EUR", "0.01", true},
		{"-3.50 EUR", "-3.50", true},
		{"12.34", "12.34", true},
		{"EUR", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		amount, err := parseAmount(tt.input)
		if tt.ok {
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, amount.StringFixed(2))
		} else {
			assert.Error(t, err)
		}
	}
}

func TestCashbackTable(t *testing.T) {
	records := []CashbackRecord{
		{ResourceID: "r1", Date: "05-03-2024", Time: "10:20:30"},
		{ResourceID: TotalRowID},
	}

	table := CashbackTable(records)
	assert.Equal(t, []string{"Resource ID", "Pre-tax amount", "Withholding tax", "Total cashback", "Date", "Time"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "05.03.2024", table.Rows[0][4])
	assert.Equal(t, TotalRowID, table.Rows[1][0])
	assert.Equal(t, "", table.Rows[1][4])
	assert.Equal(t, "0.00", table.Rows[1][1])
}
