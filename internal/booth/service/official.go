package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/biovote/pkg/jwtx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Scopes carried by official tokens.
const (
	ScopeVotersWrite = "voters:write"
	ScopeTallyRead   = "tally:read"
)

// OfficialSubject is the token subject for election staff. There is one
// shared official identity per booth deployment.
const OfficialSubject = "official"

var ErrInvalidCode = errors.New("invalid or expired one-time code")

// OfficialService exchanges a TOTP code from the official's authenticator
// for a short-lived access token.
type OfficialService struct {
	Secret string
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

type OfficialToken struct {
	AccessToken string
	ExpiresAt   time.Time
	Scopes      []string
}

func (s *OfficialService) IssueToken(ctx context.Context, code string) (OfficialToken, error) {
	log := slogx.FromContext(ctx)

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	code = strings.TrimSpace(code)
	valid, err := totp.ValidateCustom(code, s.Secret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !valid {
		log.Warn("official code rejected")
		return OfficialToken{}, ErrInvalidCode
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultOfficialTokenTTL
	}
	scopes := []string{ScopeVotersWrite, ScopeTallyRead}
	claims := jwtx.NewOfficialClaims(OfficialSubject, scopes, []string{"otp"}, ttl, s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign official token", slog.Any("error", err))
		return OfficialToken{}, err
	}

	log.Info("official token issued", slog.String("jti", claims.ID), slog.Time("expires_at", claims.ExpiresAt.Time))
	return OfficialToken{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Scopes:      scopes,
	}, nil
}

// NewOfficialSecret generates a TOTP secret for the official account and
// the otpauth:// URL to load into an authenticator app.
func NewOfficialSecret(issuer string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: OfficialSubject,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}
