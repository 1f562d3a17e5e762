package wise

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mkadlec/wise-statements/pkg/table"
)

// intervalQuery builds the statement interval with inclusive day
// boundaries, midnight to the last millisecond of the end day.
func intervalQuery(start, end time.Time) url.Values {
	query := url.Values{}
	query.Set("intervalStart", start.Format("2006-01-02")+"T00:00:00.000Z")
	query.Set("intervalEnd", end.Format("2006-01-02")+"T23:59:59.999Z")
	query.Set("type", "COMPACT")

	return query
}

func (c *Client) statementPath(profileID, balanceID int64) string {
	return fmt.Sprintf("/v1/profiles/%d/balance-statements/%d/statement.csv", profileID, balanceID)
}

// GetStatement downloads the CSV balance statement for the given period
// and parses it into a table. The statement endpoint demands step-up
// authentication, so the request runs through the challenge flow.
func (c *Client) GetStatement(ctx context.Context, profileID, balanceID int64, start, end time.Time) (*table.Table, error) {
	status, body, err := c.getWithStepUp(ctx, "statement", c.statementPath(profileID, balanceID), intervalQuery(start, end))
	if err != nil {
		return nil, NewStatementFetchError(err.Error())
	}

	if status != http.StatusOK {
		return nil, NewStatementFetchError(fmt.Sprintf("could not get statement: status %d: %s. Check private key.", status, body))
	}

	statement, err := table.FromCSV(body)
	if err != nil {
		return nil, NewStatementFetchError(fmt.Sprintf("could not parse statement CSV: %v", err))
	}

	// the provider leaves payer/payee empty for some transfer types
	statement.CoalesceColumn("Payer Name")
	statement.CoalesceColumn("Payee Name")

	c.monitor.StatementRows.WithLabelValues().Set(float64(len(statement.Rows)))

	return statement, nil
}

// VerifyPrivateKey performs the statement request without parsing the
// result. It exists only to prove that the configured key can satisfy a
// step-up challenge.
func (c *Client) VerifyPrivateKey(ctx context.Context, profileID, balanceID int64, start, end time.Time) error {
	status, body, err := c.getWithStepUp(ctx, "statement", c.statementPath(profileID, balanceID), intervalQuery(start, end))
	if err != nil {
		return NewStatementFetchError(err.Error())
	}

	if status != http.StatusOK {
		return NewStatementFetchError(fmt.Sprintf("could not get statement: status %d: %s. Check private key.", status, body))
	}

	return nil
}
