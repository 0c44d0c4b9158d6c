package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// startSession replaces any previous session with one built from the parse
// result. An empty item list rejects the file instead of creating a session.
func startSession(app *pocketbase.PocketBase, e *core.RequestEvent, parsed *services.ParsedInput, sourceName string) error {
	if len(parsed.Items) == 0 {
		return errorJSON(e, http.StatusBadRequest, "no assembly items found in the file")
	}

	settings, err := services.LoadSettings(app)
	if err != nil {
		log.Printf("upload: %v", err)
		return errorJSON(e, http.StatusInternalServerError, "failed to load settings")
	}

	store := services.NewRecordSessionStore(app)
	session := services.NewSession(parsed, sourceName, settings.OutputFolder)
	if err := store.Save(session); err != nil {
		log.Printf("upload: %v", err)
		return errorJSON(e, http.StatusInternalServerError, "failed to save session")
	}

	return e.JSON(http.StatusOK, map[string]any{
		"items":         len(parsed.Items),
		"shipment_info": parsed.ShipmentInfo,
		"input_file":    sourceName,
	})
}

// HandleSheetUpload accepts a multipart spreadsheet upload and starts a new
// assembly session from it.
func HandleSheetUpload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return errorJSON(e, http.StatusBadRequest, "missing file upload")
		}
		defer file.Close()

		parsed, err := services.ParseSheet(file)
		if err != nil {
			log.Printf("upload: parse %q: %v", header.Filename, err)
			return errorJSON(e, http.StatusBadRequest, "file is not a readable spreadsheet")
		}

		return startSession(app, e, parsed, header.Filename)
	}
}

// HandleInputFiles lists the spreadsheets available in the configured input
// folder.
func HandleInputFiles(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.LoadSettings(app)
		if err != nil {
			log.Printf("input_files: %v", err)
			return errorJSON(e, http.StatusInternalServerError, "failed to load settings")
		}
		if settings.InputFolder == "" {
			return errorJSON(e, http.StatusConflict, "input folder is not configured")
		}

		entries, err := os.ReadDir(settings.InputFolder)
		if err != nil {
			return errorJSON(e, http.StatusConflict, "input folder is not readable")
		}

		files := []string{}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
				files = append(files, entry.Name())
			}
		}
		sort.Strings(files)

		return e.JSON(http.StatusOK, map[string]any{"files": files})
	}
}

// HandleSheetLoad starts a session from a file inside the configured input
// folder.
func HandleSheetLoad(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return errorJSON(e, http.StatusBadRequest, "invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" || name != filepath.Base(name) {
			return errorJSON(e, http.StatusBadRequest, "invalid file name")
		}

		settings, err := services.LoadSettings(app)
		if err != nil {
			log.Printf("load: %v", err)
			return errorJSON(e, http.StatusInternalServerError, "failed to load settings")
		}
		if settings.InputFolder == "" {
			return errorJSON(e, http.StatusConflict, "input folder is not configured")
		}

		path := filepath.Join(settings.InputFolder, name)
		file, err := os.Open(path)
		if err != nil {
			return errorJSON(e, http.StatusNotFound, "file not found in input folder")
		}
		defer file.Close()

		parsed, err := services.ParseSheet(file)
		if err != nil {
			log.Printf("load: parse %q: %v", path, err)
			return errorJSON(e, http.StatusBadRequest, "file is not a readable spreadsheet")
		}

		return startSession(app, e, parsed, path)
	}
}
