package deviceerrors

import (
	"net/http"

	"github.com/Bdavid117/sioma-app/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid device credentials",
		http.StatusUnauthorized,
	)
	ErrDeviceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Device not found",
		http.StatusNotFound,
	)
	ErrDeviceDisabled = apperror.New(
		apperror.CodeForbidden,
		"Device is disabled",
		http.StatusForbidden,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Could not generate token",
		http.StatusInternalServerError,
	)
)
