package boothsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one booth service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service can serve traffic.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// RequestOfficialToken exchanges a TOTP code for an official access token.
func (c *Client) RequestOfficialToken(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{"code": {code}}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/officials/token",
		strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Authenticate exchanges a TOTP code and returns an official Session.
func (c *Client) Authenticate(ctx context.Context, code string) (*Session, error) {
	tok, err := c.RequestOfficialToken(ctx, code)
	if err != nil {
		return nil, err
	}
	return c.NewSession(tok.AccessToken, tok.Scope, tok.ExpiresIn), nil
}

// CastBallot submits a ballot with freshly captured samples. Anything other
// than a committed ballot is returned as an *APIError carrying the outcome.
func (c *Client) CastBallot(ctx context.Context, req CastBallotRequest) (*ReceiptResponse, error) {
	body, contentType, err := multipartBody(
		map[string]string{"voter_id": req.VoterID, "candidate": req.Candidate},
		map[string][]byte{"face": req.Face, "eye": req.Eye},
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/ballots", body,
		map[string]string{"Content-Type": contentType})
	if err != nil {
		return nil, err
	}

	var receipt ReceiptResponse
	if err := decodeJSON(resp, &receipt, http.StatusCreated); err != nil {
		return nil, err
	}
	return &receipt, nil
}
