package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// HandleIntermediate exports a snapshot report to the output folder without
// ending the run.
func HandleIntermediate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}

		sink := services.DirSink{Dir: engine.Session().OutputDirURI}
		handle, err := engine.GenerateIntermediate(sink, time.Now())
		if err != nil {
			log.Printf("export: intermediate: %v", err)
			return engineError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{"report": handle})
	}
}

// HandleFinishEarly exports the final report with every unvisited item
// reported as skipped, then clears the session for good.
func HandleFinishEarly(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}

		sink := services.DirSink{Dir: engine.Session().OutputDirURI}
		handle, err := engine.FinishEarly(sink, time.Now())
		if err != nil {
			log.Printf("export: finish early: %v", err)
			return engineError(e, err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"report":        handle,
			"discrepancies": services.Discrepancies(engine.Session().Items),
		})
	}
}

// HandleReportDownload streams a snapshot of the current session as an xlsx
// download without touching the session state.
func HandleReportDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}

		session := engine.Session()
		discrepancies := services.Discrepancies(session.Items)

		xlsxBytes, err := services.GenerateReport(session.Items, session.ShipmentInfo, discrepancies)
		if err != nil {
			log.Printf("export: report download: %v", err)
			return errorJSON(e, http.StatusInternalServerError, "failed to generate report")
		}

		filename := services.ReportFileName(time.Now())
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleReportPDFDownload streams the same snapshot as a PDF download.
func HandleReportPDFDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		engine, err := loadEngine(app)
		if err != nil {
			return engineError(e, err)
		}

		session := engine.Session()
		discrepancies := services.Discrepancies(session.Items)

		now := time.Now()
		pdfBytes, err := services.GenerateReportPDF(session.Items, session.ShipmentInfo, discrepancies, now)
		if err != nil {
			log.Printf("export: pdf download: %v", err)
			return errorJSON(e, http.StatusInternalServerError, "failed to generate PDF report")
		}

		filename := "Assembly_" + now.Format("2006-01-02_15-04-05") + ".pdf"
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
