package wise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profilesServer(t *testing.T, profiles []Profile) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/profiles", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		require.NoError(t, json.NewEncoder(w).Encode(profiles))
	}))
}

func TestSelectProfile(t *testing.T) {
	profiles := []Profile{
		{ID: 1, Type: "PERSONAL", FullName: "Jane Doe"},
		{ID: 2, Type: "BUSINESS", FullName: "ACME Ltd"},
		{ID: 3, Type: "BUSINESS", FullName: "ACME Holding"},
	}

	srv := profilesServer(t, profiles)
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	// more than one match is soft - first one in server order wins
	profile, err := client.SelectProfile(context.Background(), "BUSINESS")
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.ID)

	profile, err = client.SelectProfile(context.Background(), "PERSONAL")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
}

func TestSelectProfileNoMatch(t *testing.T) {
	srv := profilesServer(t, []Profile{{ID: 1, Type: "PERSONAL"}})
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	profile, err := client.SelectProfile(context.Background(), "BUSINESS")
	assert.Nil(t, profile)

	var noMatch *NoMatchingProfileError
	require.ErrorAs(t, err, &noMatch)
}

func TestListProfilesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	profiles, err := client.ListProfiles(context.Background())
	assert.Nil(t, profiles)

	var fetchErr *ProfileFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "bad token")
}
