package plaid

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grachmannico95/finsync/internal/domain"
)

var ErrNotConfigured = errors.New("plaid: client id and secret are required")

// errorResponse is the error body Plaid returns with any non-200 status.
type errorResponse struct {
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

var codeCategories = map[string]domain.RemoteErrorCategory{
	"INVALID_ACCESS_TOKEN":            domain.RemoteErrorAuthentication,
	"ITEM_LOGIN_REQUIRED":             domain.RemoteErrorAuthentication,
	"INVALID_CREDENTIALS":             domain.RemoteErrorAuthentication,
	"RATE_LIMIT_EXCEEDED":             domain.RemoteErrorRateLimit,
	"INSTITUTION_DOWN":                domain.RemoteErrorInstitutionDown,
	"INSTITUTION_NOT_RESPONDING":      domain.RemoteErrorInstitutionDown,
	"INSTITUTION_NOT_AVAILABLE":       domain.RemoteErrorInstitutionDown,
	"INSTITUTION_NO_LONGER_SUPPORTED": domain.RemoteErrorInstitutionUnsupported,
	"INSTITUTION_NOT_SUPPORTED":       domain.RemoteErrorInstitutionUnsupported,
	"ITEM_NOT_FOUND":                  domain.RemoteErrorItemNotFound,
	"ACCESS_NOT_GRANTED":              domain.RemoteErrorConsentRevoked,
	"USER_PERMISSION_REVOKED":         domain.RemoteErrorConsentRevoked,
}

// parseError turns a non-200 response into a categorized *domain.RemoteError.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.ErrorCode == "" {
		errResp.ErrorMessage = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body)
	}

	category, ok := codeCategories[errResp.ErrorCode]
	if !ok {
		switch {
		case errResp.ErrorType == "RATE_LIMIT_EXCEEDED" || resp.StatusCode == http.StatusTooManyRequests:
			category = domain.RemoteErrorRateLimit
		case errResp.ErrorType == "INSTITUTION_ERROR":
			category = domain.RemoteErrorInstitutionDown
		case resp.StatusCode >= http.StatusInternalServerError:
			category = domain.RemoteErrorNetwork
		default:
			category = domain.RemoteErrorUnknown
		}
	}

	remoteErr := domain.NewRemoteError(category, errResp.ErrorCode, errResp.ErrorMessage)
	if errResp.RequestID != "" {
		remoteErr.Message += " (request_id=" + errResp.RequestID + ")"
	}
	return remoteErr
}
