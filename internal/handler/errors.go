package handler

import (
	"errors"
	"net/http"

	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/repository"
	"github.com/arashpm/user-service/internal/service"
	"github.com/arashpm/user-service/internal/token"
)

// statusForError maps service and token errors onto HTTP statuses. Token
// errors keep their machine-readable kind in the response body.
func statusForError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: err.Error(),
		}
	case errors.Is(err, token.ErrRevokedToken),
		errors.Is(err, token.ErrExpired),
		errors.Is(err, token.ErrInvalidSignature),
		errors.Is(err, token.ErrMalformedToken),
		errors.Is(err, token.ErrAudienceMismatch),
		errors.Is(err, token.ErrIssuerMismatch),
		errors.Is(err, token.ErrWrongTokenType):
		return http.StatusUnauthorized, dto.ErrorResponse{
			Error:     "Unauthorized",
			ErrorType: token.Kind(err),
			Message:   err.Error(),
		}
	case errors.Is(err, service.ErrUnknownRefreshToken),
		errors.Is(err, service.ErrInactiveAccount):
		return http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: err.Error(),
		}
	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWrongOldPassword):
		return http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: err.Error(),
		}
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateUsername):
		return http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: err.Error(),
		}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal server error",
		Message: err.Error(),
	}
}
