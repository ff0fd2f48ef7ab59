package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/org-auth/services"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// Messages for failures whose cause is not shown to the client
const (
	MessageInvalidBody        = "Invalid request body"
	MessageInternal           = "Internal server error"
	MessageRegistrationFailed = "Registration unsuccessful"
	MessageLoginFailed        = "Authentication failed"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	handleServiceError(w, err, logger, func(w http.ResponseWriter) error {
		return utils.WriteInternalServerError(w, MessageInternal)
	})
}

// handleServiceError maps known error types and hands everything else to
// fallback after logging it.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger, fallback func(http.ResponseWriter) error) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case services.IsValidationError(err), services.IsConflictError(err):
		fields := utils.GetValidationFields(err)
		if len(fields) == 0 {
			writeErr = utils.WriteUnprocessable(w, services.GetErrorMessage(err))
			break
		}
		writeErr = utils.WriteFieldErrors(w, fields)

	case services.IsUnauthorizedError(err):
		writeErr = utils.WriteUnauthorized(w, services.GetErrorMessage(err))

	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, services.GetErrorMessage(err))

	default:
		logServiceFailure(logger, err)
		writeErr = fallback(w)
	}

	logResponseError(logger, writeErr)
}

// logServiceFailure logs an error the client only sees as a generic failure.
// Errors that were never classified by a service are called out separately.
func logServiceFailure(logger *zap.Logger, err error) {
	msg := "internal server error"
	if !services.IsInternalError(err) {
		msg = "unclassified service error"
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_type", string(services.GetErrorType(err))),
	}
	if details := services.GetErrorDetails(err); len(details) > 0 {
		fields = append(fields, zap.Any("details", details))
	}
	logger.Error(msg, fields...)
}

// logResponseError records a failed write. A suppressed second response is
// only interesting when debugging.
func logResponseError(logger *zap.Logger, err error) {
	switch {
	case err == nil:
	case errors.Is(err, utils.ErrResponseWritten):
		logger.Debug("response already written", zap.Error(err))
	default:
		logger.Error("failed to write response", zap.Error(err))
	}
}
