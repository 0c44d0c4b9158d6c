package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// loadEngine resumes the persisted session for a handler call.
func loadEngine(app *pocketbase.PocketBase) (*services.Engine, error) {
	return services.LoadEngine(services.NewRecordSessionStore(app))
}

// respondAfterOperation finishes the run automatically when the cursor has
// passed the last item: the final report is exported and the session is
// cleared. Otherwise the next item is returned.
func respondAfterOperation(e *core.RequestEvent, engine *services.Engine) error {
	if !engine.Complete() {
		return e.JSON(http.StatusOK, sessionState(engine))
	}

	session := engine.Session()
	discrepancies := services.Discrepancies(session.Items)

	handle, err := engine.Finalize(services.DirSink{Dir: session.OutputDirURI}, time.Now())
	if err != nil {
		log.Printf("assembly: finalize: %v", err)
		return engineError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"active":        false,
		"completed":     true,
		"report":        handle,
		"discrepancies": discrepancies,
	})
}

// HandleCollect marks the current item as picked in full.
func HandleCollect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}
		if err := engine.Collect(); err != nil {
			return engineError(e, err)
		}
		return respondAfterOperation(e, engine)
	}
}

// HandleSkip records the current item as not available.
func HandleSkip(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}
		if err := engine.Skip(); err != nil {
			return engineError(e, err)
		}
		return respondAfterOperation(e, engine)
	}
}

// HandleChangeQuantity records an adjusted pick amount and box for the
// current item.
func HandleChangeQuantity(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return errorJSON(e, http.StatusBadRequest, "invalid form data")
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(e.Request.FormValue("quantity")))
		if err != nil {
			return errorJSON(e, http.StatusBadRequest, "quantity must be a number")
		}
		box, err := strconv.Atoi(strings.TrimSpace(e.Request.FormValue("box")))
		if err != nil {
			return errorJSON(e, http.StatusBadRequest, "box must be a number")
		}

		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}
		if err := engine.ChangeQuantity(quantity, box); err != nil {
			return engineError(e, err)
		}
		return respondAfterOperation(e, engine)
	}
}

// HandleNextBox starts a new shipping box for subsequent collections.
func HandleNextBox(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}
		box, err := engine.NextBox()
		if err != nil {
			return engineError(e, err)
		}
		return e.JSON(http.StatusOK, map[string]any{"current_box": box})
	}
}
