package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// sealerInfo binds derived keys to this use so the same master key material
// can never produce a template key for something else.
const sealerInfo = "biovote/template-seal/v1"

var ErrOpen = errors.New("cryptox: unable to open sealed data")

// LoadMasterKey returns key material from path, falling back to the named
// environment variable. When neither is set a random key is generated and
// ephemeral is true: sealed data will not survive a restart.
func LoadMasterKey(path, envVar string) (material []byte, ephemeral bool, err error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("cryptox: read master key file: %w", err)
		}
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, false, errors.New("cryptox: master key file is empty")
		}
		return data, false, nil
	}

	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return []byte(v), false, nil
		}
	}

	material = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, false, fmt.Errorf("cryptox: generate ephemeral master key: %w", err)
	}
	return material, true, nil
}

// Sealer encrypts small blobs (biometric templates) with XChaCha20-Poly1305
// under a key derived from master key material with HKDF-SHA256.
type Sealer struct {
	aead interface {
		NonceSize() int
		Overhead() int
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

func NewSealer(material []byte) (*Sealer, error) {
	if len(material) == 0 {
		return nil, errors.New("cryptox: empty master key material")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, material, nil, []byte(sealerInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("cryptox: derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: init aead: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce || ciphertext || tag. aad is authenticated but not
// encrypted; callers pass the owning record id so sealed blobs cannot be
// swapped between rows.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open reverses Seal. Any tampering, wrong key or wrong aad yields ErrOpen.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrOpen
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], aad)
	if err != nil {
		return nil, ErrOpen
	}
	return plain, nil
}
