package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const cashbackActivityType = "BALANCE_CASHBACK"

// createdOnLayout is the timestamp format of the activity feed,
// microsecond precision in UTC.
const createdOnLayout = "2006-01-02T15:04:05.000000Z"

type Activity struct {
	Type      string   `json:"type"`
	Resource  Resource `json:"resource"`
	CreatedOn string   `json:"createdOn"`
}

type Resource struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type activityPage struct {
	Activities []Activity `json:"activities"`
	Cursor     string     `json:"cursor"`
}

// CashbackActivity is one BALANCE_CASHBACK activity reduced to the
// fields the cashback statement needs.
type CashbackActivity struct {
	ResourceID string
	Date       string // DD-MM-YYYY
	Time       string // HH:MM:SS
}

// splitTimestamp decomposes an activity timestamp into its calendar
// date and time of day.
func splitTimestamp(value string) (string, string, error) {
	ts, err := time.Parse(createdOnLayout, value)
	if err != nil {
		return "", "", fmt.Errorf("could not parse timestamp %q: %w", value, err)
	}

	return ts.Format("02-01-2006"), ts.Format("15:04:05"), nil
}

// listActivities walks the cursor paginated activity feed and collects
// every activity in the window. There is no cap on the number of pages.
// A failing page request aborts the whole listing - no partial results.
func (c *Client) listActivities(ctx context.Context, profileID int64, start, end time.Time) ([]Activity, error) {
	var all []Activity

	cursor := ""
	for {
		query := url.Values{}
		query.Set("since", start.Format("2006-01-02")+"T00:00:00.000Z")
		query.Set("until", end.Format("2006-01-02")+"T23:59:59.999Z")
		if cursor != "" {
			query.Set("nextCursor", cursor)
		}

		resp, err := c.get(ctx, "activities", fmt.Sprintf("/v1/profiles/%d/activities", profileID), query, nil)
		if err != nil {
			return nil, NewActivityFetchError(err.Error())
		}

		body, err := readBody(resp)
		if err != nil {
			return nil, NewActivityFetchError(err.Error())
		}

		if resp.StatusCode != http.StatusOK {
			return nil, NewActivityFetchError(fmt.Sprintf("could not get activities: status %d: %s", resp.StatusCode, body))
		}

		var page activityPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, NewActivityFetchError(fmt.Sprintf("could not unmarshal activities: %v", err))
		}

		all = append(all, page.Activities...)

		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	return all, nil
}

// ListCashbackActivities filters the activity feed down to cashback
// payouts, in the order the server returned them. The activity feed is
// pre-authorized within the session and does not demand step-up, unlike
// the statement endpoints.
func (c *Client) ListCashbackActivities(ctx context.Context, profileID int64, start, end time.Time) ([]CashbackActivity, error) {
	activities, err := c.listActivities(ctx, profileID, start, end)
	if err != nil {
		return nil, err
	}

	cashbacks := make([]CashbackActivity, 0)
	for _, activity := range activities {
		if activity.Type != cashbackActivityType {
			continue
		}

		date, timeOfDay, err := splitTimestamp(activity.CreatedOn)
		if err != nil {
			return nil, NewActivityFetchError(err.Error())
		}

		cashbacks = append(cashbacks, CashbackActivity{
			ResourceID: activity.Resource.ID,
			Date:       date,
			Time:       timeOfDay,
		})
	}

	return cashbacks, nil
}
