package middleware

import (
	"errors"
	"net/http"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/gin-gonic/gin"
)

// apiError pairs the HTTP status and envelope detail of a known error
type apiError struct {
	status  int
	code    dto.ErrorCode
	message string
}

// errorTable is checked in order; the first matching sentinel wins
var errorTable = []struct {
	target error
	apiError
}{
	{apperrors.ErrUnauthenticated, apiError{http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"}},
	{apperrors.ErrInvalidCredentials, apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"}},
	{apperrors.ErrTokenExpired, apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}},
	{apperrors.ErrTokenInvalid, apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}},
	{apperrors.ErrTokenNotFound, apiError{http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"}},
	{apperrors.ErrTokenRevoked, apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"}},
	{apperrors.ErrUpgradeRequired, apiError{http.StatusForbidden, dto.ErrorCodeUpgradeRequired, "Premium membership required"}},
	{apperrors.ErrPermissionDenied, apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}},
	{apperrors.ErrResourceNotFound, apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}},
	{apperrors.ErrUserNotFound, apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"}},
	{apperrors.ErrEmailAlreadyExists, apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "An account with this email already exists"}},
	{apperrors.ErrResourceAlreadyExists, apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"}},
	{apperrors.ErrConflict, apiError{http.StatusConflict, dto.ErrorCodeConflict, "The data changed while saving, please try again"}},
	{apperrors.ErrValidationFailed, apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}},
	{apperrors.ErrInvalidTier, apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid membership type"}},
	{apperrors.ErrBadRequest, apiError{http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"}},
	{apperrors.ErrNotConfigured, apiError{http.StatusServiceUnavailable, dto.ErrorCodeConfigMissing, "This feature is not configured yet"}},
	{apperrors.ErrUpstreamFailure, apiError{http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "An external service failed, please try again"}},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, entry := range errorTable {
		if !errors.Is(err, entry.target) {
			continue
		}
		detail := dto.NewErrorDetail(entry.code, apperrors.UserMessage(err, entry.message))
		if title := apperrors.Title(err); title != "" {
			detail.WithTitle(title)
		}
		var ce *apperrors.CustomError
		if errors.As(err, &ce) {
			if ce.Code != "" {
				detail.Code = dto.ErrorCode(ce.Code)
			}
			if ce.Details != nil {
				detail.WithDetails(ce.Details)
			}
		}
		switch entry.status {
		case http.StatusServiceUnavailable:
			detail.WithSeverity(dto.ErrorSeverityInfo)
		case http.StatusBadGateway, http.StatusConflict:
			detail.WithSeverity(dto.ErrorSeverityWarning)
		}
		c.AbortWithStatusJSON(entry.status, dto.NewErrorResponse(detail))
		return
	}

	if dberrors.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
		return
	}
	if dberrors.Code(err) != "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error").
				WithDetails(map[string]string{"code": dberrors.Code(err)})))
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

// HandleBindError answers 400 with the field errors of a failed binding
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
