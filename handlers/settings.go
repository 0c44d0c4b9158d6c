package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// HandleSettingsView returns the stored folder references.
func HandleSettingsView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.LoadSettings(app)
		if err != nil {
			log.Printf("settings: %v", err)
			return errorJSON(e, http.StatusInternalServerError, "failed to load settings")
		}
		return e.JSON(http.StatusOK, settings)
	}
}

// HandleSettingsSave updates the folder references. New sessions pick up the
// output folder; the running session keeps the destination it started with.
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return errorJSON(e, http.StatusBadRequest, "invalid form data")
		}

		settings := services.Settings{
			InputFolder:  strings.TrimSpace(e.Request.FormValue("input_folder")),
			OutputFolder: strings.TrimSpace(e.Request.FormValue("output_folder")),
		}
		if err := services.SaveSettings(app, settings); err != nil {
			log.Printf("settings: %v", err)
			return errorJSON(e, http.StatusInternalServerError, "failed to save settings")
		}

		return e.JSON(http.StatusOK, settings)
	}
}
