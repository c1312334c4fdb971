package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrSessionLimit, http.StatusServiceUnavailable, CodeSessionLimit),
		sentinelHandler(domain.ErrCatalogLoading, http.StatusServiceUnavailable, CodeCatalogLoading),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrSessionLimit,
		domain.ErrCatalogLoading,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports the offending field of a validation error.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, ve.Field+": "+ve.Reason)
		return true
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, domain.ErrInvalidRequest.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
