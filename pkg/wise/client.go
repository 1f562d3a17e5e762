package wise

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/mkadlec/wise-statements/pkg/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	productionURL = "https://api.transferwise.com"
	sandboxURL    = "https://api.sandbox.transferwise.tech"

	// challengeHeader carries the step-up challenge id in the first
	// response and is echoed back together with signatureHeader on retry.
	challengeHeader = "x-2fa-approval"
	signatureHeader = "X-Signature"
)

var reAPIToken = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Client talks to the Wise REST API on behalf of a single token.
// The base URL and credentials are fixed at construction time.
type Client struct {
	baseURL string
	token   string
	key     *rsa.PrivateKey

	client  *http.Client
	logger  *logrus.Logger
	monitor *prometheus.Monitor
}

func NewClient(token string, privateKeyPEM []byte, sandbox bool, logger *logrus.Logger, monitor *prometheus.Monitor) (*Client, error) {
	if !reAPIToken.MatchString(token) {
		return nil, NewInvalidCredentialError("invalid API token format")
	}

	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, NewInvalidCredentialError(fmt.Sprintf("invalid private key: %v", err))
	}

	baseURL := productionURL
	if sandbox {
		baseURL = sandboxURL
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		key:     key,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		monitor: monitor,
	}, nil
}

// get performs an authenticated GET request against the API.
// The extra map is a per request header overlay - it is applied to this
// single request only and can never leak into subsequent calls.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, extra map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get response from Wise: %w", err)
	}

	c.monitor.ProviderRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	return resp, nil
}

// getWithStepUp runs a GET request through the strong customer
// authentication flow. When the first response demands a step-up, the
// challenge is signed with the private key and the identical request is
// re-issued exactly once with the challenge id and signature attached.
// Statement endpoints demand step-up; activity and cashback detail
// endpoints do not and are fetched with plain get.
func (c *Client) getWithStepUp(ctx context.Context, endpoint, path string, query url.Values) (int, []byte, error) {
	resp, err := c.get(ctx, endpoint, path, query, nil)
	if err != nil {
		return 0, nil, err
	}

	if challenge := resp.Header.Get(challengeHeader); challenge != "" {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		signature, err := signChallenge(c.key, challenge)
		if err != nil {
			return 0, nil, err
		}

		c.monitor.StepUpChallenges.WithLabelValues().Inc()
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpoint,
		}).Info("Signing step-up challenge")

		resp, err = c.get(ctx, endpoint, path, query, map[string]string{
			challengeHeader: challenge,
			signatureHeader: signature,
		})
		if err != nil {
			return 0, nil, err
		}
	}

	defer resp.Body.Close() //nolint: errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close() //nolint: errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	return body, nil
}
