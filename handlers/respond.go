package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// errorJSON writes a uniform error payload.
func errorJSON(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// engineError maps engine failures to HTTP responses. Validation rejections
// and missing sessions are caller problems; everything else is a server-side
// failure that keeps the session intact for retry.
func engineError(e *core.RequestEvent, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return errorJSON(e, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoSession):
		return errorJSON(e, http.StatusNotFound, "no assembly session to resume")
	case errors.Is(err, services.ErrNoOutputDir):
		return errorJSON(e, http.StatusConflict, "output folder is not configured")
	default:
		return errorJSON(e, http.StatusInternalServerError, err.Error())
	}
}

// barcodeTail returns the last four digits of a barcode for display, or the
// whole barcode when it is shorter.
func barcodeTail(barcode string) string {
	if len(barcode) > 4 {
		return barcode[len(barcode)-4:]
	}
	return barcode
}
