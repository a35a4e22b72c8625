package biometricerrors

import (
	"net/http"

	"github.com/Bdavid117/sioma-app/internal/shared/apperror"
)

var (
	ErrNoFaceDetected = apperror.New(
		apperror.CodeUnprocessable,
		"No se detectaron rostros en la imagen",
		http.StatusUnprocessableEntity,
	)
	ErrUnsupportedImage = apperror.New(
		apperror.CodeInvalidInput,
		"No se pudo abrir la imagen",
		http.StatusBadRequest,
	)
	ErrServiceUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"El reconocimiento facial no está disponible",
		http.StatusServiceUnavailable,
	)
)
