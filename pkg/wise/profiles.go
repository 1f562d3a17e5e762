package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Profile struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	FullName string `json:"fullName"`
}

// ListProfiles returns all profiles visible to the token.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	resp, err := c.get(ctx, "profiles", "/v2/profiles", nil, nil)
	if err != nil {
		return nil, NewProfileFetchError(err.Error())
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, NewProfileFetchError(err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProfileFetchError(fmt.Sprintf("could not get profiles: status %d: %s", resp.StatusCode, body))
	}

	var profiles []Profile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, NewProfileFetchError(fmt.Sprintf("could not unmarshal profiles: %v", err))
	}

	return profiles, nil
}

// SelectProfile picks the profile with the requested account type.
// No match is a hard failure. More than one match is only logged and the
// first one, in the order the server returned them, wins.
func (c *Client) SelectProfile(ctx context.Context, accountType string) (*Profile, error) {
	profiles, err := c.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Type == accountType {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		return nil, NewNoMatchingProfileError(fmt.Sprintf("no %s profile found", accountType))
	}

	if len(matches) > 1 {
		c.logger.Warnf("More than one %s profile found. The first one is used.", accountType)
	}

	return &matches[0], nil
}
