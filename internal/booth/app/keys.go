package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/pkg/cryptox"
	"github.com/aussiebroadwan/biovote/pkg/idx"
	"github.com/aussiebroadwan/biovote/pkg/jwtx"
)

// masterKeyEnv names the variable holding raw template sealing key material
// when no key file is configured.
const masterKeyEnv = "BIOVOTE_MASTER_KEY"

// InitOfficialKeys generates the signing key for official tokens. Keys are
// ephemeral: a restart invalidates every outstanding official token, which
// at worst means staff enter a fresh TOTP code.
func InitOfficialKeys(logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, err
	}

	kid := "booth-" + idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, err
	}

	logger.Info("official signing key generated", "kid", kid, "algorithm", signer.Alg())
	return signer, keys, nil
}

// InitSealer loads the master key that protects enrolled templates at rest.
// An ephemeral key is refused in prod: templates sealed under it cannot be
// opened after a restart, and enrollment is create-only, so every enrolled
// voter would be locked out.
func InitSealer(cfg Config, logger *slog.Logger) (*cryptox.Sealer, error) {
	material, ephemeral, err := cryptox.LoadMasterKey(cfg.MasterKeyPath, masterKeyEnv)
	if err != nil {
		return nil, err
	}
	if ephemeral {
		if cfg.Env == "prod" {
			return nil, errors.New("BIOVOTE_MASTER_KEY_PATH or " + masterKeyEnv + " is required when ENV=prod")
		}
		logger.Warn("no master key configured, using an ephemeral key: enrolled templates will not survive a restart")
	}
	return cryptox.NewSealer(material)
}

// InitOfficialSecret returns the configured TOTP secret. Outside prod a
// missing secret is generated and its enrollment URL logged once.
func InitOfficialSecret(cfg Config, logger *slog.Logger) (string, error) {
	if cfg.OfficialTOTPSecret != "" {
		return cfg.OfficialTOTPSecret, nil
	}
	if cfg.Env == "prod" {
		return "", errors.New("BIOVOTE_OFFICIAL_TOTP_SECRET is required when ENV=prod")
	}

	secret, url, err := service.NewOfficialSecret(cfg.Issuer)
	if err != nil {
		return "", fmt.Errorf("failed to generate official TOTP secret: %w", err)
	}
	logger.Warn("generated official TOTP secret, add it to an authenticator app",
		"otpauth_url", url,
	)
	return secret, nil
}
