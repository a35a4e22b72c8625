package workererrors

import (
	"net/http"

	"github.com/Bdavid117/sioma-app/internal/shared/apperror"
)

var (
	ErrWorkerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Trabajador no encontrado",
		http.StatusNotFound,
	)
	ErrWorkerAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Trabajador ya existe",
		http.StatusConflict,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Faltan datos requeridos",
		http.StatusBadRequest,
	)
	ErrInvalidFaceEncoding = apperror.New(
		apperror.CodeInvalidInput,
		"Codificación facial inválida",
		http.StatusBadRequest,
	)
	ErrInvalidFaceImage = apperror.New(
		apperror.CodeInvalidInput,
		"Imagen base64 inválida",
		http.StatusBadRequest,
	)
	ErrInvalidWorkerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid worker ID",
		http.StatusBadRequest,
	)
)
