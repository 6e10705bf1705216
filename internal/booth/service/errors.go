package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
)

var (
	ErrVoterNotFound    = errors.New("voter not found")
	ErrAlreadyEnrolled  = errors.New("voter already enrolled")
	ErrConflict         = errors.New("voter has already voted")
	ErrRejected         = errors.New("biometric verification rejected")
	ErrInvalidCandidate = errors.New("invalid candidate")
	ErrInvalidVoterID   = errors.New("invalid voter id")

	// ErrTemplateUnavailable means the voter is enrolled but their templates
	// cannot be read back. No outcome is decided and nothing is written.
	ErrTemplateUnavailable = errors.New("enrolled templates unavailable")

	// ErrInvalidSample is biometric.ErrInvalidSample, so callers need only
	// import this package.
	ErrInvalidSample = biometric.ErrInvalidSample
)

// maxLabelLen bounds voter ids and candidate labels (in runes).
const maxLabelLen = 128

// normalizeLabel trims s and reports whether it is a usable identifier.
func normalizeLabel(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n > 0 && n <= maxLabelLen
}
