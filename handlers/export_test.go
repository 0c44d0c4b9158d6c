package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"assemblytracker/services"
	"assemblytracker/testhelpers"
)

func TestHandleIntermediate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	session := testSession(t.TempDir())
	session.Items[0].Status = services.StatusCollected
	session.Items[0].CollectedQuantity = 5
	session.Items[0].Box = 1
	session.CurrentIndex = 1
	saveTestSession(t, app, session)

	handler := HandleIntermediate(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/intermediate", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	report, _ := body["report"].(string)
	if report == "" {
		t.Fatal("response missing report handle")
	}
	if _, err := os.Stat(report); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}

	// The run continues: the unvisited item is pending again.
	loaded, _ := services.NewRecordSessionStore(app).Load()
	if loaded == nil {
		t.Fatal("intermediate export cleared the session")
	}
	if loaded.Items[1].Status != services.StatusPending {
		t.Errorf("unvisited item = %v, want pending", loaded.Items[1].Status)
	}
}

func TestHandleIntermediate_NoOutputDir(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	session := testSession("")
	saveTestSession(t, app, session)

	handler := HandleIntermediate(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/intermediate", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleFinishEarly(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	outDir := t.TempDir()
	session := testSession(outDir)
	session.Items[0].Status = services.StatusCollected
	session.Items[0].CollectedQuantity = 5
	session.Items[0].Box = 1
	session.CurrentIndex = 1
	saveTestSession(t, app, session)

	handler := HandleFinishEarly(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/finish", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	report, _ := body["report"].(string)
	if report == "" || !strings.HasPrefix(report, outDir) {
		t.Errorf("report handle wrong: %q", report)
	}
	if _, err := os.Stat(report); err != nil {
		t.Errorf("final report not written: %v", err)
	}

	discrepancies, ok := body["discrepancies"].([]any)
	if !ok || len(discrepancies) != 1 {
		t.Fatalf("discrepancies = %v, want the forced skip", body["discrepancies"])
	}
	if !strings.Contains(discrepancies[0].(string), "A-2") {
		t.Errorf("discrepancy names the wrong item: %v", discrepancies[0])
	}

	has, _ := services.NewRecordSessionStore(app).HasSession()
	if has {
		t.Error("early finish should clear the session")
	}
}

func TestHandleReportDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	session := testSession(t.TempDir())
	session.Items[0].Status = services.StatusCollected
	session.Items[0].CollectedQuantity = 5
	session.Items[0].Box = 1
	saveTestSession(t, app, session)

	handler := HandleReportDownload(app)
	req := httptest.NewRequest(http.MethodGet, "/assembly/report.xlsx", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("download is not a workbook: %v", err)
	}
	defer f.Close()
	if f.GetSheetName(0) != "Assembly" {
		t.Errorf("sheet name = %q", f.GetSheetName(0))
	}

	// Download must not touch the session.
	loaded, _ := services.NewRecordSessionStore(app).Load()
	if loaded == nil || loaded.Items[1].Status != services.StatusPending {
		t.Error("report download mutated the session")
	}
}

func TestHandleReportPDFDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saveTestSession(t, app, testSession(t.TempDir()))

	handler := HandleReportPDFDownload(app)
	req := httptest.NewRequest(http.MethodGet, "/assembly/report.pdf", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("download is not a PDF document")
	}
}

func TestHandleReportDownload_NoSession(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleReportDownload(app)
	req := httptest.NewRequest(http.MethodGet, "/assembly/report.xlsx", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
