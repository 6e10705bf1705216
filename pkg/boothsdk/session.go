package boothsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/aussiebroadwan/biovote/pkg/httpx"
)

// Session performs requests as an authenticated election official. It is
// safe for concurrent use; its fields never change after creation.
type Session struct {
	client      *Client
	accessToken string
	expiresAt   time.Time
	scopes      []string
}

// NewSession wraps an existing access token.
func (c *Client) NewSession(accessToken, scope string, expiresIn int) *Session {
	return &Session{
		client:      c,
		accessToken: accessToken,
		expiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
		scopes:      httpx.ParseScopes(scope),
	}
}

func (s *Session) Scopes() []string     { return slices.Clone(s.scopes) }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }
func (s *Session) Expired() bool        { return time.Now().After(s.expiresAt) }

// EnrollVoter registers a voter with face and eye templates.
// Requires voters:write.
func (s *Session) EnrollVoter(ctx context.Context, req EnrollRequest) (*VoterResponse, error) {
	body, contentType, err := multipartBody(
		map[string]string{"voter_id": req.VoterID},
		map[string][]byte{"face": req.Face, "eye": req.Eye},
	)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/voters", body,
		map[string]string{"Content-Type": contentType})
	if err != nil {
		return nil, err
	}

	var voter VoterResponse
	if err := decodeJSON(resp, &voter, http.StatusCreated); err != nil {
		return nil, err
	}
	return &voter, nil
}

// GetVoter returns a voter's status. Requires voters:write.
func (s *Session) GetVoter(ctx context.Context, voterID string) (*VoterResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/voters/"+url.PathEscape(voterID), nil, nil)
	if err != nil {
		return nil, err
	}

	var voter VoterResponse
	if err := decodeJSON(resp, &voter, http.StatusOK); err != nil {
		return nil, err
	}
	return &voter, nil
}

// GetResults returns the current tally. Requires tally:read.
func (s *Session) GetResults(ctx context.Context) (*ResultsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/results", nil, nil)
	if err != nil {
		return nil, err
	}

	var results ResultsResponse
	if err := decodeJSON(resp, &results, http.StatusOK); err != nil {
		return nil, err
	}
	return &results, nil
}

func (s *Session) String() string {
	return fmt.Sprintf("boothsdk.Session{scopes=%v, expires_at=%s}", s.scopes, s.expiresAt.Format(time.RFC3339))
}
