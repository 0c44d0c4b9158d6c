package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// reviewItem is the flattened view of one pick-list line for the review list.
type reviewItem struct {
	Index             int    `json:"index"`
	Article           string `json:"article"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	CollectedQuantity int    `json:"collected_quantity"`
	Box               int    `json:"box"`
	Status            string `json:"status"`
	Location          string `json:"location"`
	BarcodeTail       string `json:"barcode_tail"`
}

// HandleReviewList returns every item with its pick outcome so mistakes can
// be spotted and corrected before the final report.
func HandleReviewList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}

		items := engine.Session().Items
		list := make([]reviewItem, len(items))
		for i, item := range items {
			list[i] = reviewItem{
				Index:             i,
				Article:           item.Article,
				Name:              item.Name,
				Quantity:          item.Quantity,
				CollectedQuantity: item.CollectedQuantity,
				Box:               item.Box,
				Status:            string(item.Status),
				Location:          item.Location,
				BarcodeTail:       barcodeTail(item.Barcode),
			}
		}
		return e.JSON(http.StatusOK, map[string]any{"items": list})
	}
}

func pathIndex(e *core.RequestEvent) (int, bool) {
	index, err := strconv.Atoi(e.Request.PathValue("index"))
	return index, err == nil
}

func formInt(e *core.RequestEvent, field string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(e.Request.FormValue(field)))
	return v, err == nil
}

// HandleReviewQuantity corrects the collected quantity of an already-handled
// item.
func HandleReviewQuantity(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return errorJSON(e, http.StatusBadRequest, "invalid form data")
		}
		index, ok := pathIndex(e)
		if !ok {
			return errorJSON(e, http.StatusBadRequest, "invalid item index")
		}
		quantity, ok := formInt(e, "quantity")
		if !ok {
			return errorJSON(e, http.StatusBadRequest, "quantity must be a number")
		}

		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}
		if err := engine.ReviewEdit(index, quantity); err != nil {
			return engineError(e, err)
		}

		item := engine.Session().Items[index]
		return e.JSON(http.StatusOK, map[string]any{
			"index":              index,
			"collected_quantity": item.CollectedQuantity,
			"status":             string(item.Status),
		})
	}
}

// HandleReviewBox reassigns an item to another shipping box.
func HandleReviewBox(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return errorJSON(e, http.StatusBadRequest, "invalid form data")
		}
		index, ok := pathIndex(e)
		if !ok {
			return errorJSON(e, http.StatusBadRequest, "invalid item index")
		}
		box, ok := formInt(e, "box")
		if !ok {
			return errorJSON(e, http.StatusBadRequest, "box must be a number")
		}

		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}
		if err := engine.ReviewEditBox(index, box); err != nil {
			return engineError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"index": index,
			"box":   engine.Session().Items[index].Box,
		})
	}
}
