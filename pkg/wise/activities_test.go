package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTimestamp(t *testing.T) {
	tests := []struct {
		input string
		date  string
		time  string
		ok    bool
	}{
		{"2024-03-05T10:20:30.000000Z", "05-03-2024", "10:20:30", true},
		{"2023-12-31T23:59:59.123456Z", "31-12-2023", "23:59:59", true},
		{"2024-03-05T10:20:30Z", "", "", false},
		{"not a timestamp", "", "", false},
	}

	for _, tt := range tests {
		date, timeOfDay, err := splitTimestamp(tt.input)
		if tt.ok {
			assert.NoError(t, err)
			assert.Equal(t, tt.date, date)
			assert.Equal(t, tt.time, timeOfDay)
		} else {
			assert.Error(t, err)
		}
	}
}

func activityJSON(activityType, resourceID, createdOn string) Activity {
	return Activity{
		Type:      activityType,
		Resource:  Resource{ID: resourceID, Type: "CASHBACK"},
		CreatedOn: createdOn,
	}
}

func TestListCashbackActivitiesPagination(t *testing.T) {
	pages := []activityPage{
		{
			Activities: []Activity{
				activityJSON("BALANCE_CASHBACK", "r1", "2024-03-05T10:20:30.000000Z"),
				activityJSON("TRANSFER", "t1", "2024-03-05T11:00:00.000000Z"),
			},
			Cursor: "a",
		},
		{
			Activities: []Activity{
				activityJSON("BALANCE_CASHBACK", "r2", "2024-03-06T09:00:00.000000Z"),
			},
			Cursor: "b",
		},
		{
			Activities: []Activity{
				activityJSON("BALANCE_CASHBACK", "r3", "2024-03-07T08:30:15.000000Z"),
			},
		},
	}

	requests := 0
	cursors := make([]string, 0, len(pages))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Less(t, requests, len(pages))
		cursors = append(cursors, r.URL.Query().Get("nextCursor"))

		assert.Equal(t, "2024-03-01T00:00:00.000Z", r.URL.Query().Get("since"))
		assert.Equal(t, "2024-03-31T23:59:59.999Z", r.URL.Query().Get("until"))

		require.NoError(t, json.NewEncoder(w).Encode(pages[requests]))
		requests++
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-31")

	activities, err := client.ListCashbackActivities(context.Background(), 7, start, end)
	require.NoError(t, err)

	assert.Equal(t, 3, requests, "one request per page")
	assert.Equal(t, []string{"", "a", "b"}, cursors)

	// non-cashback activities are dropped, order is preserved
	require.Len(t, activities, 3)
	assert.Equal(t, CashbackActivity{ResourceID: "r1", Date: "05-03-2024", Time: "10:20:30"}, activities[0])
	assert.Equal(t, CashbackActivity{ResourceID: "r2", Date: "06-03-2024", Time: "09:00:00"}, activities[1])
	assert.Equal(t, CashbackActivity{ResourceID: "r3", Date: "07-03-2024", Time: "08:30:15"}, activities[2])
}

func TestListCashbackActivitiesAbortsOnFailure(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			_, _ = fmt.Fprint(w, `{"activities":[{"type":"BALANCE_CASHBACK","resource":{"id":"r1"},"createdOn":"2024-03-05T10:20:30.000000Z"}],"cursor":"a"}`)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-31")

	activities, err := client.ListCashbackActivities(context.Background(), 7, start, end)
	assert.Nil(t, activities, "no partial results")

	var fetchErr *ActivityFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "boom")
}
