package handler

import (
	"log/slog"
	"net/http"

	"docbridge/internal/domain"
	"docbridge/internal/httputil"
)

// statusForKind maps an error kind to its HTTP status
func statusForKind(kind string) int {
	switch kind {
	case domain.KindAuthenticationMissing, domain.KindAuthenticationInvalid:
		return http.StatusUnauthorized
	case domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindArchiveUnavailable:
		return http.StatusNotFound
	case domain.KindRemoteAPIFailure, domain.KindExportFailure:
		return http.StatusBadGateway
	case domain.KindContentExtractionFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	respondKind(w, logger, status, kind, err)
}

// handleSetupError reports a failed batch setup. Anything other than an
// authentication or validation problem is a 500.
func handleSetupError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status != http.StatusUnauthorized && status != http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	respondKind(w, logger, status, kind, err)
}

func respondKind(w http.ResponseWriter, logger *slog.Logger, status int, kind string, err error) {
	detail := err.Error()
	if kind == domain.KindInternal {
		logger.Error("request failed", "error", err)
		detail = "internal server error"
	} else if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "error_kind", kind)
	}
	httputil.RespondErrorKind(w, status, kind, detail)
}
