package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/activitystore"
	"ecobin-backend/internal/database"
	"ecobin-backend/internal/models"
	"ecobin-backend/pkg/utils"
)

// respondError maps domain errors onto status codes. Unexpected errors are
// logged and reported with the generic fallback message only.
func respondError(w http.ResponseWriter, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, activitystore.ErrNotFound), errors.Is(err, database.ErrNotFound):
		utils.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrValidation):
		utils.Error(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, database.ErrConflict):
		utils.Error(w, http.StatusConflict, "Record already exists")
	default:
		log.Error().Err(err).Msg("❌ " + fallback)
		utils.Error(w, http.StatusInternalServerError, fallback)
	}
}

// validationMessage strips the sentinel prefix so clients see only the field problem
func validationMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, models.ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{models.ErrValidation}, args...)...)
}
