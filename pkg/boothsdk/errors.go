package boothsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/biovote/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidSample     = "invalid_sample"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeAlreadyEnrolled   = "already_enrolled"
	ErrorCodeRejected          = "rejected"
	ErrorCodeConflict          = "conflict"
	ErrorCodeInvalidCode       = "invalid_code"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeUnavailable       = "template_unavailable"
	ErrorCodeServerError       = "server_error"
)

// Ballot outcomes as reported by the service.
const (
	OutcomeCommitted     = "committed"
	OutcomeRejected      = "rejected"
	OutcomeConflict      = "conflict"
	OutcomeNotFound      = "not_found"
	OutcomeInvalidSample = "invalid_sample"
)

// APIError is a non-2xx response. The server writes it with WriteError and
// the client parses it back.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Outcome     string `json:"outcome,omitempty"`
}

func (e *APIError) Error() string {
	if e.Outcome != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Outcome, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
		Outcome:          e.Outcome,
	})
}

// WithOutcome returns a copy of e tagged with a ballot outcome.
func (e *APIError) WithOutcome(outcome string) *APIError {
	c := *e
	c.Outcome = outcome
	return &c
}

func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

var (
	ErrInvalidRequest  = NewAPIError(http.StatusBadRequest, ErrorCodeInvalidRequest, "the request is malformed or missing required fields")
	ErrInvalidSample   = NewAPIError(http.StatusBadRequest, ErrorCodeInvalidSample, "a biometric sample could not be decoded")
	ErrNotFound        = NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "voter not found")
	ErrAlreadyEnrolled = NewAPIError(http.StatusConflict, ErrorCodeAlreadyEnrolled, "voter is already enrolled")
	ErrRejected        = NewAPIError(http.StatusForbidden, ErrorCodeRejected, "biometric verification failed")
	ErrConflict        = NewAPIError(http.StatusConflict, ErrorCodeConflict, "voter has already voted")
	ErrInvalidCode     = NewAPIError(http.StatusUnauthorized, ErrorCodeInvalidCode, "invalid or expired one-time code")
	ErrUnavailable     = NewAPIError(http.StatusServiceUnavailable, ErrorCodeUnavailable, "enrolled templates cannot be read; check the master key")
	ErrServerError     = NewAPIError(http.StatusInternalServerError, ErrorCodeServerError, "internal server error")
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Outcome:     errResp.Outcome,
		}
	}

	// Bearer failures carry no body, only WWW-Authenticate.
	code := ErrorCodeServerError
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = ErrorCodeInvalidToken
	case http.StatusForbidden:
		code = ErrorCodeInsufficientScope
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
