package attendanceerrors

import (
	"net/http"

	"github.com/Bdavid117/sioma-app/internal/shared/apperror"
)

var (
	ErrInvalidDateFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Fecha inválida",
		http.StatusBadRequest,
	)
)
