package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// sessionState builds the resume payload: progress, current box and the item
// under the cursor.
func sessionState(engine *services.Engine) map[string]any {
	session := engine.Session()
	position, total := engine.Progress()

	state := map[string]any{
		"active":      true,
		"completed":   engine.Complete(),
		"total":       total,
		"current_box": session.CurrentBox,
		"input_file":  session.InputFilePath,
	}

	if item := engine.CurrentItem(); item != nil {
		state["position"] = position + 1
		state["item"] = map[string]any{
			"article":      item.Article,
			"name":         item.Name,
			"quantity":     item.Quantity,
			"location":     item.Location,
			"barcode_tail": barcodeTail(item.Barcode),
		}
	}

	return state
}

// HandleSessionStatus reports whether a session can be resumed and where it
// stands.
func HandleSessionStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store := services.NewRecordSessionStore(app)
		engine, err := services.LoadEngine(store)
		if err != nil {
			if errors.Is(err, services.ErrNoSession) {
				return e.JSON(http.StatusOK, map[string]any{"active": false})
			}
			return engineError(e, err)
		}
		return e.JSON(http.StatusOK, sessionState(engine))
	}
}
