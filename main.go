package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/collections"
	"assemblytracker/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed default settings on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed settings failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Session lifecycle ────────────────────────────────────
		se.Router.GET("/assembly/session", handlers.HandleSessionStatus(app))
		se.Router.POST("/assembly/upload", handlers.HandleSheetUpload(app))
		se.Router.GET("/assembly/files", handlers.HandleInputFiles(app))
		se.Router.POST("/assembly/load", handlers.HandleSheetLoad(app))

		// ── Pick operations ──────────────────────────────────────
		se.Router.POST("/assembly/collect", handlers.HandleCollect(app))
		se.Router.POST("/assembly/skip", handlers.HandleSkip(app))
		se.Router.POST("/assembly/quantity", handlers.HandleChangeQuantity(app))
		se.Router.POST("/assembly/next-box", handlers.HandleNextBox(app))

		// ── Review & corrections ─────────────────────────────────
		se.Router.GET("/assembly/items", handlers.HandleReviewList(app))
		se.Router.POST("/assembly/items/{index}/quantity", handlers.HandleReviewQuantity(app))
		se.Router.POST("/assembly/items/{index}/box", handlers.HandleReviewBox(app))

		// ── Exports ──────────────────────────────────────────────
		se.Router.POST("/assembly/intermediate", handlers.HandleIntermediate(app))
		se.Router.POST("/assembly/finish", handlers.HandleFinishEarly(app))
		se.Router.GET("/assembly/report.xlsx", handlers.HandleReportDownload(app))
		se.Router.GET("/assembly/report.pdf", handlers.HandleReportPDFDownload(app))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettingsView(app))
		se.Router.POST("/settings", handlers.HandleSettingsSave(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
