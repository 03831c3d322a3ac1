package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"docbridge/internal/domain"
)

// IsNotFoundError checks if err is a 404 from a Google API
func IsNotFoundError(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsAuthError checks if err is a 401 from a Google API (expired or revoked grant)
func IsAuthError(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

func statusOf(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// wrapRemote converts a Google API error into a domain RemoteError.
// Rejected credentials additionally match domain.ErrAuthenticationInvalid.
func wrapRemote(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsAuthError(err) {
		err = fmt.Errorf("%w: %v", domain.ErrAuthenticationInvalid, err)
	}
	return domain.NewRemoteError(op, err)
}
